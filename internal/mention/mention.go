package mention

import "time"

// Mention is one stored observation of a story. RSS and webhook producers
// never mutate a stored Mention; the legislative tracker replaces its single
// record wholesale on every poll.
type Mention struct {
	ID           string            `json:"id"`
	Canon        string            `json:"canon"`
	Section      string            `json:"section"`
	Title        string            `json:"title"`
	Link         string            `json:"link"`
	Source       string            `json:"source"`
	Summary      string            `json:"summary"`
	Origin       string            `json:"origin"`
	PublishedTs  int64             `json:"published_ts"`
	PublishedISO string            `json:"published_iso"`
	Sentiment    string            `json:"sentiment,omitempty"`
	Meta         map[string]string `json:"meta,omitempty"`
}

func (m Mention) PublishedAt() time.Time {
	return time.Unix(m.PublishedTs, 0).UTC()
}

// SetPublished keeps the numeric score and the display timestamp in sync.
func (m *Mention) SetPublished(t time.Time) {
	utc := t.UTC()
	m.PublishedTs = utc.Unix()
	m.PublishedISO = utc.Format(time.RFC3339)
}
