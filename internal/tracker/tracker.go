package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/canonical"
	"github.com/TMG-AI/liz-dashboard/internal/globaltime"
	"github.com/TMG-AI/liz-dashboard/internal/mention"
)

// Upserter is the slice of the store the tracker needs. The tracker tracks
// one logical entity, so it replaces rather than inserts.
type Upserter interface {
	UpsertByID(ctx context.Context, m mention.Mention) error
}

// billSnapshot is the subset of the tracker API response we keep.
type billSnapshot struct {
	BillID         string `json:"bill_id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	LastAction     string `json:"last_action"`
	LastActionDate string `json:"last_action_date"`
	URL            string `json:"url"`
}

type Config struct {
	APIURL  string
	APIKey  string
	BillID  string
	Timeout time.Duration
}

type Poller struct {
	cfg    Config
	client *http.Client
	store  Upserter
	logger zerolog.Logger
}

func NewPoller(cfg Config, store Upserter, logger zerolog.Logger) *Poller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Poller{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		store:  store,
		logger: logger.With().Str("component", "tracker").Logger(),
	}
}

// Enabled reports whether a tracker API is configured; the poll subcommand is
// a no-op otherwise.
func (p *Poller) Enabled() bool {
	return p != nil && strings.TrimSpace(p.cfg.APIURL) != ""
}

// Poll fetches the current bill snapshot and replaces the stored record. The
// id and canonical URL derive from the bill, not the poll, so every poll
// addresses the same logical entity and the latest snapshot wins.
func (p *Poller) Poll(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	snapshot, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	m := p.toMention(snapshot)
	if err := p.store.UpsertByID(ctx, m); err != nil {
		return fmt.Errorf("upsert tracked bill: %w", err)
	}

	p.logger.Info().
		Str("bill_id", snapshot.BillID).
		Str("status", snapshot.Status).
		Msg("Tracked bill updated")
	return nil
}

func (p *Poller) fetch(ctx context.Context) (billSnapshot, error) {
	endpoint, err := url.Parse(p.cfg.APIURL)
	if err != nil {
		return billSnapshot{}, fmt.Errorf("parse tracker url: %w", err)
	}
	q := endpoint.Query()
	q.Set("bill_id", p.cfg.BillID)
	if p.cfg.APIKey != "" {
		q.Set("api_key", p.cfg.APIKey)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return billSnapshot{}, fmt.Errorf("build tracker request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return billSnapshot{}, fmt.Errorf("poll tracker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return billSnapshot{}, fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}

	var snapshot billSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return billSnapshot{}, fmt.Errorf("decode tracker response: %w", err)
	}
	if snapshot.BillID == "" {
		snapshot.BillID = p.cfg.BillID
	}
	return snapshot, nil
}

func (p *Poller) toMention(snapshot billSnapshot) mention.Mention {
	link := strings.TrimSpace(snapshot.URL)
	if link == "" {
		link = "https://legislature.example/bills/" + url.PathEscape(snapshot.BillID)
	}
	canon := canonical.Canonicalize(link)

	title := snapshot.Title
	if title == "" {
		title = "Bill " + snapshot.BillID
	}

	summary := snapshot.LastAction
	if snapshot.Status != "" {
		summary = strings.TrimSpace(snapshot.Status + ": " + summary)
	}

	m := mention.Mention{
		ID:      canonical.MentionID(canon),
		Canon:   canon,
		Section: "legislation",
		Title:   title,
		Link:    link,
		Source:  canonical.DisplaySource(link, "legislative tracker"),
		Summary: summary,
		Origin:  "tracker",
		Meta: map[string]string{
			"bill_id":          snapshot.BillID,
			"status":           snapshot.Status,
			"last_action_date": snapshot.LastActionDate,
		},
	}

	published := globaltime.Now()
	if snapshot.LastActionDate != "" {
		if t, err := time.Parse("2006-01-02", snapshot.LastActionDate); err == nil {
			published = t
		}
	}
	m.SetPublished(published)
	return m
}
