package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/canonical"
	"github.com/TMG-AI/liz-dashboard/internal/dedup"
	"github.com/TMG-AI/liz-dashboard/internal/feeds"
	"github.com/TMG-AI/liz-dashboard/internal/filter"
	"github.com/TMG-AI/liz-dashboard/internal/globaltime"
	"github.com/TMG-AI/liz-dashboard/internal/mention"
	"github.com/TMG-AI/liz-dashboard/internal/runlog"
)

// RetentionWindow is how long a stored mention stays visible. The dedup
// indices outlive it on purpose.
const RetentionWindow = 14 * 24 * time.Hour

// Fetcher pulls raw items for one configured source.
type Fetcher interface {
	Fetch(ctx context.Context, src feeds.Source) ([]feeds.Item, error)
}

// Mentions is the slice of the store the orchestrator needs.
type Mentions interface {
	InsertIfNew(ctx context.Context, m mention.Mention) (bool, error)
	TrimOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Report aggregates one run. SourceErrors maps origin tag to the fetch error
// message; a failed source never aborts the run.
type Report struct {
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	Seen         int               `json:"seen"`
	Stored       int               `json:"stored"`
	Duplicates   int               `json:"duplicates"`
	Filtered     int               `json:"filtered"`
	Trimmed      int64             `json:"trimmed"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

type Service struct {
	fetcher  Fetcher
	chain    *filter.Chain
	detector *dedup.Detector
	store    Mentions
	ledger   *runlog.Ledger
	sources  []feeds.Source
	logger   zerolog.Logger
}

func NewService(
	fetcher Fetcher,
	chain *filter.Chain,
	detector *dedup.Detector,
	store Mentions,
	ledger *runlog.Ledger,
	sources []feeds.Source,
	logger zerolog.Logger,
) *Service {
	return &Service{
		fetcher:  fetcher,
		chain:    chain,
		detector: detector,
		store:    store,
		ledger:   ledger,
		sources:  sources,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// Run processes every configured source sequentially. Sequential processing
// keeps same-origin near-duplicate checks serialized against their own
// inserts; the per-key atomicity of the URL claim already covers cross-run
// overlap.
func (s *Service) Run(ctx context.Context) (Report, error) {
	report := Report{
		StartedAt:    globaltime.Now(),
		SourceErrors: make(map[string]string),
	}

	for _, src := range s.sources {
		items, err := s.fetcher.Fetch(ctx, src)
		if err != nil {
			s.logger.Error().Err(err).Str("origin", src.Origin).Msg("Feed fetch failed")
			report.SourceErrors[src.Origin] = err.Error()
			continue
		}

		s.logger.Info().Str("origin", src.Origin).Int("items", len(items)).Msg("Fetched feed")
		for _, item := range items {
			s.processItem(ctx, src, item, &report)
		}
	}

	report.FinishedAt = globaltime.Now()
	if err := s.ledger.Record(ctx, runlog.IngestRun{
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		Seen:         report.Seen,
		Stored:       report.Stored,
		Duplicates:   report.Duplicates,
		Filtered:     report.Filtered,
		SourceErrors: len(report.SourceErrors),
		Trimmed:      report.Trimmed,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record ingest run")
	}

	s.logger.Info().
		Int("seen", report.Seen).
		Int("stored", report.Stored).
		Int("duplicates", report.Duplicates).
		Int("filtered", report.Filtered).
		Int("source_errors", len(report.SourceErrors)).
		Msg("Ingest run complete")
	return report, nil
}

func (s *Service) processItem(ctx context.Context, src feeds.Source, item feeds.Item, report *Report) {
	report.Seen++

	link := canonical.ResolveItemLink(item.Link, item.GUID)
	if link == "" || item.Title == "" {
		s.logger.Debug().Str("origin", src.Origin).Msg("Skipping item without link or title")
		report.Filtered++
		return
	}
	source := canonical.DisplaySource(link, item.FeedTitle)

	if rejected, reason := s.chain.Reject(src.Kind, item.Title, item.Summary, source, link); rejected {
		s.logger.Debug().
			Str("origin", src.Origin).
			Str("reason", reason).
			Str("title", item.Title).
			Msg("Filtered item")
		report.Filtered++
		return
	}

	now := globaltime.Now()
	// A broken similarity lookup must not cost us a legitimate article.
	duplicate, matched, err := s.detector.IsDuplicate(ctx, src.Origin, item.Title, item.Summary, now)
	if err != nil {
		s.logger.Warn().Err(err).Str("origin", src.Origin).Msg("Near-duplicate check failed, treating as new")
		duplicate = false
	}
	if duplicate {
		s.logger.Debug().
			Str("origin", src.Origin).
			Str("title", item.Title).
			Str("matched", matched).
			Msg("Near-duplicate suppressed")
		report.Duplicates++
		return
	}

	canon := canonical.Canonicalize(link)
	m := mention.Mention{
		ID:      canonical.MentionID(canon),
		Canon:   canon,
		Section: "news",
		Title:   item.Title,
		Link:    link,
		Source:  source,
		Summary: item.Summary,
		Origin:  src.Origin,
	}
	m.SetPublished(item.Published)

	inserted, err := s.store.InsertIfNew(ctx, m)
	if err != nil {
		s.logger.Error().Err(err).Str("origin", src.Origin).Msg("Store insert failed")
		report.SourceErrors[src.Origin] = err.Error()
		return
	}
	if !inserted {
		report.Duplicates++
		return
	}
	report.Stored++

	trimmed, err := s.store.TrimOlderThan(ctx, now.Add(-RetentionWindow))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Retention trim failed")
		return
	}
	report.Trimmed += trimmed
}
