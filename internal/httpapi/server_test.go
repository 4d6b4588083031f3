package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/globaltime"
	"github.com/TMG-AI/liz-dashboard/internal/mention"
	"github.com/TMG-AI/liz-dashboard/internal/store"
	"github.com/TMG-AI/liz-dashboard/schema"
)

type fakeStore struct {
	mentions  []mention.Mention
	seenCanon map[string]struct{}
	pingErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{seenCanon: make(map[string]struct{})}
}

func (s *fakeStore) InsertIfNew(_ context.Context, m mention.Mention) (bool, error) {
	if _, seen := s.seenCanon[m.Canon]; seen {
		return false, nil
	}
	s.seenCanon[m.Canon] = struct{}{}
	s.mentions = append(s.mentions, m)
	return true, nil
}

func (s *fakeStore) Range(_ context.Context, from, to time.Time) ([]mention.Mention, error) {
	var out []mention.Mention
	for _, m := range s.mentions {
		if m.PublishedTs >= from.Unix() && m.PublishedTs <= to.Unix() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) TrimOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *fakeStore) Stats(context.Context) (store.Stats, error) {
	return store.Stats{Mentions: int64(len(s.mentions))}, nil
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func newTestServer(t *testing.T, st MentionStore) *Server {
	t.Helper()

	validator, err := schema.NewValidator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewServer(st, validator, zerolog.Nop())
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestInsertMentionRecomputesCanonicalFields(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	server := newTestServer(t, st)

	body := `{
		"title": "Red Cross Opens Shelter",
		"link": "https://Example.com/shelter?utm_source=alert#top",
		"origin": "redcross"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(st.mentions) != 1 {
		t.Fatalf("got %d stored mentions, want 1", len(st.mentions))
	}
	if got := st.mentions[0].Canon; got != "https://example.com/shelter" {
		t.Fatalf("canonical url not recomputed server-side: %q", got)
	}

	// Same story again, different tracking params: idempotent insert.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/mentions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	if len(st.mentions) != 1 {
		t.Fatalf("duplicate insert stored a second mention")
	}
}

func TestInsertMentionRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentions",
		strings.NewReader(`{"title": "No Link Or Origin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestMeltwaterWebhookStoresDocuments(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	server := newTestServer(t, st)

	body := `{"documents": [
		{"title": "Story One", "url": "https://example.com/one", "source_name": "Example"},
		{"title": "Story Two", "url": "https://example.com/two", "source_name": "Example"},
		{"title": "", "url": "https://example.com/three"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/meltwater", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Received int `json:"received"`
			Stored   int `json:"stored"`
			Skipped  int `json:"skipped"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Received != 3 || resp.Data.Stored != 2 || resp.Data.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", resp.Data)
	}
	if got := st.mentions[0].Origin; got != "meltwater" {
		t.Fatalf("stored origin = %q, want meltwater", got)
	}
}

func TestMeltwaterWebhookCapsBodySize(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, newFakeStore())

	// Past the cap the JSON is truncated mid-document and must be refused.
	oversized := `{"documents": [{"title": "` + strings.Repeat("x", maxBodyBytes) + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/meltwater", strings.NewReader(oversized))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListMentionsRange(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, canon := range []string{"https://example.com/a", "https://example.com/b"} {
		m := mention.Mention{ID: canon, Canon: canon, Title: "T", Link: canon, Origin: "delta"}
		m.SetPublished(base.Add(time.Duration(i) * 24 * time.Hour))
		if _, err := st.InsertIfNew(context.Background(), m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	server := newTestServer(t, st)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/mentions?from=2025-06-01T00:00:00Z&to=2025-06-01T12:00:00Z", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Count != 1 {
		t.Fatalf("got count=%d, want 1", resp.Data.Count)
	}
}

func TestListMentionsDefaultWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(now)
	defer globaltime.ResetTime()

	st := newFakeStore()
	recent := mention.Mention{ID: "recent", Canon: "https://example.com/recent", Title: "T", Origin: "delta"}
	recent.SetPublished(now.AddDate(0, 0, -2))
	expired := mention.Mention{ID: "expired", Canon: "https://example.com/expired", Title: "T", Origin: "delta"}
	expired.SetPublished(now.AddDate(0, 0, -15))
	for _, m := range []mention.Mention{recent, expired} {
		if _, err := st.InsertIfNew(context.Background(), m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	server := newTestServer(t, st)

	// No from/to: the window defaults to the last 14 days ending now.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mentions", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			Mentions []mention.Mention `json:"mentions"`
			Count    int               `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Count != 1 {
		t.Fatalf("got count=%d, want 1 (item outside the window must be excluded)", resp.Data.Count)
	}
	if got, want := resp.Data.Mentions[0].PublishedAt(), recent.PublishedAt(); !got.Equal(want) {
		t.Fatalf("published = %v, want %v", got, want)
	}
}

func TestListMentionsRejectsBadRange(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mentions?from=not-a-time", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
