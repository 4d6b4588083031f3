package feeds

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/TMG-AI/liz-dashboard/internal/filter"
	"github.com/TMG-AI/liz-dashboard/internal/globaltime"
)

const (
	userAgent    = "liz-dashboard/1.0 (+https://github.com/TMG-AI/liz-dashboard)"
	acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"
)

// acceptTransport adds the feed Accept header to every request; some hosts
// serve HTML instead of XML without it.
type acceptTransport struct {
	base http.RoundTripper
}

func (t acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", acceptHeader)
	}
	return t.base.RoundTrip(req)
}

// Source is one configured feed: the origin tag names the monitored client
// and selects the filter branch.
type Source struct {
	Origin string
	URL    string
	Kind   filter.Kind
}

// SourcesFromConfig builds the fetch list from the origin→URL map, sorted by
// origin for a stable run order.
func SourcesFromConfig(urls map[string]string) []Source {
	sources := make([]Source, 0, len(urls))
	for origin, feedURL := range urls {
		sources = append(sources, Source{
			Origin: origin,
			URL:    feedURL,
			Kind:   filter.KindForOrigin(origin),
		})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Origin < sources[j].Origin })
	return sources
}

// Item is one raw feed entry before canonicalization and filtering.
type Item struct {
	Title     string
	Link      string
	GUID      string
	Summary   string
	FeedTitle string
	Published time.Time
}

type Reader struct {
	parser *gofeed.Parser
}

func NewReader(timeout time.Duration) *Reader {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{
		Timeout:   timeout,
		Transport: acceptTransport{base: http.DefaultTransport},
	}
	return &Reader{parser: parser}
}

// Fetch downloads and parses one feed. Items without a published date get the
// fetch time, so late-arriving entries land at the head of the timeline
// instead of at the epoch.
func (r *Reader) Fetch(ctx context.Context, src Source) ([]Item, error) {
	feed, err := r.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", src.Origin, err)
	}

	now := globaltime.Now()
	items := make([]Item, 0, len(feed.Items))
	for _, raw := range feed.Items {
		if raw == nil {
			continue
		}

		published := now
		if raw.PublishedParsed != nil {
			published = raw.PublishedParsed.UTC()
		} else if raw.UpdatedParsed != nil {
			published = raw.UpdatedParsed.UTC()
		}

		items = append(items, Item{
			Title:     strings.TrimSpace(raw.Title),
			Link:      strings.TrimSpace(raw.Link),
			GUID:      strings.TrimSpace(raw.GUID),
			Summary:   strings.TrimSpace(raw.Description),
			FeedTitle: strings.TrimSpace(feed.Title),
			Published: published,
		})
	}
	return items, nil
}
