package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TMG-AI/liz-dashboard/internal/canonical"
	"github.com/TMG-AI/liz-dashboard/internal/globaltime"
	"github.com/TMG-AI/liz-dashboard/internal/ingest"
	"github.com/TMG-AI/liz-dashboard/internal/mention"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleListMentions(c echo.Context) error {
	now := globaltime.Now()

	from, err := parseTimeParam(c.QueryParam("from"), now.Add(-ingest.RetentionWindow))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid 'from' parameter")
	}
	to, err := parseTimeParam(c.QueryParam("to"), now)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid 'to' parameter")
	}
	if to.Before(from) {
		return fail(c, http.StatusBadRequest, "'to' must not precede 'from'")
	}

	mentions, err := s.store.Range(c.Request().Context(), from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read mentions")
		return serverError(c, http.StatusInternalServerError, "failed to read mentions")
	}
	return success(c, http.StatusOK, map[string]any{
		"mentions": mentions,
		"count":    len(mentions),
	})
}

// parseTimeParam accepts unix seconds or RFC 3339; empty input yields the
// fallback.
func parseTimeParam(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

// handleInsertMention is the store-insertion contract for pre-classified
// producers. The canonical URL and id are recomputed here regardless of what
// the caller sent, so every producer shares one canonicalization.
func (s *Server) handleInsertMention(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return fail(c, http.StatusBadRequest, "unable to read request body")
	}

	doc, err := s.validator.Validate(body)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}

	m := mentionFromDocument(doc)
	inserted, err := s.store.InsertIfNew(c.Request().Context(), m)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to insert mention")
		return serverError(c, http.StatusInternalServerError, "failed to insert mention")
	}
	if inserted {
		s.trim(c)
		return success(c, http.StatusCreated, map[string]any{"inserted": true, "id": m.ID})
	}
	return success(c, http.StatusOK, map[string]any{"inserted": false, "id": m.ID})
}

func mentionFromDocument(doc map[string]any) mention.Mention {
	str := func(key string) string {
		value, _ := doc[key].(string)
		return strings.TrimSpace(value)
	}

	link := canonical.ResolveItemLink(str("link"), "")
	canon := canonical.Canonicalize(link)

	m := mention.Mention{
		ID:        canonical.MentionID(canon),
		Canon:     canon,
		Section:   str("section"),
		Title:     str("title"),
		Link:      link,
		Source:    str("source"),
		Summary:   str("summary"),
		Origin:    str("origin"),
		Sentiment: str("sentiment"),
	}
	if m.Section == "" {
		m.Section = "news"
	}
	if m.Source == "" {
		m.Source = canonical.DisplaySource(link, "")
	}
	if meta, ok := doc["meta"].(map[string]any); ok && len(meta) > 0 {
		m.Meta = make(map[string]string, len(meta))
		for key, value := range meta {
			if text, ok := value.(string); ok {
				m.Meta[key] = text
			}
		}
	}

	published := globaltime.Now()
	if raw := str("published_iso"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			published = t
		}
	}
	m.SetPublished(published)
	return m
}

// meltwaterPayload is the subset of the provider's alert push we consume.
type meltwaterPayload struct {
	Documents []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		SourceName    string `json:"source_name"`
		OpeningText   string `json:"opening_text"`
		PublishedDate string `json:"published_date"`
		Sentiment     string `json:"sentiment"`
	} `json:"documents"`
}

// handleMeltwaterWebhook accepts provider alerts. They arrive pre-classified,
// so they bypass the filter chain and near-duplicate detector and enter at
// the store's idempotent insert.
func (s *Server) handleMeltwaterWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return fail(c, http.StatusBadRequest, "unable to read request body")
	}

	var payload meltwaterPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "invalid webhook payload")
	}

	stored, skipped := 0, 0
	for _, doc := range payload.Documents {
		link := canonical.ResolveItemLink(doc.URL, "")
		if link == "" || strings.TrimSpace(doc.Title) == "" {
			skipped++
			continue
		}
		canon := canonical.Canonicalize(link)

		m := mention.Mention{
			ID:        canonical.MentionID(canon),
			Canon:     canon,
			Section:   "news",
			Title:     strings.TrimSpace(doc.Title),
			Link:      link,
			Source:    canonical.DisplaySource(link, doc.SourceName),
			Summary:   strings.TrimSpace(doc.OpeningText),
			Origin:    "meltwater",
			Sentiment: strings.ToLower(strings.TrimSpace(doc.Sentiment)),
		}

		published := globaltime.Now()
		if doc.PublishedDate != "" {
			if t, err := time.Parse(time.RFC3339, doc.PublishedDate); err == nil {
				published = t
			}
		}
		m.SetPublished(published)

		inserted, err := s.store.InsertIfNew(c.Request().Context(), m)
		if err != nil {
			s.logger.Error().Err(err).Str("link", link).Msg("Failed to store webhook mention")
			return serverError(c, http.StatusInternalServerError, "failed to store mentions")
		}
		if inserted {
			stored++
		} else {
			skipped++
		}
	}

	if stored > 0 {
		s.trim(c)
	}
	return success(c, http.StatusOK, map[string]int{
		"received": len(payload.Documents),
		"stored":   stored,
		"skipped":  skipped,
	})
}

func (s *Server) trim(c echo.Context) {
	cutoff := globaltime.Now().Add(-ingest.RetentionWindow)
	if _, err := s.store.TrimOlderThan(c.Request().Context(), cutoff); err != nil {
		s.logger.Warn().Err(err).Msg("Retention trim failed")
	}
}
