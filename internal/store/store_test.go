package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/mention"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewWithClient(client, zerolog.Nop())
}

func testMention(id, canon string, published time.Time) mention.Mention {
	m := mention.Mention{
		ID:      id,
		Canon:   canon,
		Section: "news",
		Title:   "Title " + id,
		Link:    canon,
		Source:  "example.com",
		Origin:  "delta",
	}
	m.SetPublished(published)
	return m
}

func TestInsertIfNewRejectsSameCanonicalURL(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	inserted, err := st.InsertIfNew(ctx, testMention("a1", "https://example.com/a", published))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Fatalf("first insert must succeed")
	}

	inserted, err = st.InsertIfNew(ctx, testMention("a1", "https://example.com/a", published))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Fatalf("second insert of the same canonical url must be rejected")
	}

	mentions, err := st.Range(ctx, published.Add(-time.Hour), published.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mentions) != 1 {
		t.Fatalf("got %d stored mentions, want 1", len(mentions))
	}
}

func TestInsertIfNewRequiresKeyFields(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, err := st.InsertIfNew(context.Background(), mention.Mention{ID: "x"}); err == nil {
		t.Fatalf("expected error for mention without canonical url")
	}
}

func TestRangeIsInclusive(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, canon := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		m := testMention(canon[len(canon)-1:], canon, base.Add(time.Duration(i)*time.Hour))
		if _, err := st.InsertIfNew(ctx, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mentions, err := st.Range(ctx, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mentions) != 2 {
		t.Fatalf("got %d mentions, want 2 (range must include both endpoints)", len(mentions))
	}
	if mentions[0].Canon != "https://example.com/a" || mentions[1].Canon != "https://example.com/b" {
		t.Fatalf("unexpected order: %q, %q", mentions[0].Canon, mentions[1].Canon)
	}
}

func TestTrimKeepsDedupIndexPermanent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	old := testMention("old1", "https://example.com/old", now.AddDate(0, 0, -15))
	if _, err := st.InsertIfNew(ctx, old); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed, err := st.TrimOlderThan(ctx, now.AddDate(0, 0, -14))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("got %d removed, want 1", removed)
	}

	mentions, err := st.Range(ctx, now.AddDate(0, 0, -14), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mentions) != 0 {
		t.Fatalf("trimmed mention still visible: %v", mentions)
	}

	// The URL stays claimed forever; the expired story must not come back.
	inserted, err := st.InsertIfNew(ctx, testMention("old1", "https://example.com/old", now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Fatalf("expired canonical url must not be re-admitted")
	}
}

func TestUpsertByIDReplacesSnapshot(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := testMention("bill1", "https://legislature.example/bills/hb-12", published)
	first.Summary = "Introduced: referred to committee"
	if err := st.UpsertByID(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := first
	second.Summary = "Passed: signed by the governor"
	second.SetPublished(published.Add(48 * time.Hour))
	if err := st.UpsertByID(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mentions, err := st.Range(ctx, published.Add(-time.Hour), published.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want exactly one snapshot", len(mentions))
	}
	if got := mentions[0].Summary; got != "Passed: signed by the governor" {
		t.Fatalf("stored snapshot not updated: %q", got)
	}
}

func TestUpsertByIDIsIdempotent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	m := testMention("bill1", "https://legislature.example/bills/hb-12", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		if err := st.UpsertByID(ctx, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Mentions != 1 {
		t.Fatalf("got %d mentions, want 1", stats.Mentions)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, canon := range []string{"https://example.com/a", "https://example.com/b"} {
		if _, err := st.InsertIfNew(ctx, testMention(canon[len(canon)-1:], canon, published)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Mentions != 2 || stats.SeenURLs != 2 || stats.SeenIDs != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
