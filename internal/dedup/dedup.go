package dedup

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/TMG-AI/liz-dashboard/internal/mention"
)

// DefaultThreshold is the Jaccard similarity at or above which two items are
// considered the same story.
const DefaultThreshold = 0.60

// DefaultWindow bounds how far back near-duplicate comparison looks. Stories
// older than this legitimately resurface and deserve a fresh record.
const DefaultWindow = 48 * time.Hour

var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "before": {},
	"being": {}, "between": {}, "could": {}, "every": {}, "from": {},
	"have": {}, "here": {}, "into": {}, "just": {}, "more": {},
	"most": {}, "other": {}, "over": {}, "said": {}, "says": {},
	"some": {}, "than": {}, "that": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"through": {}, "under": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {},
}

// TokenSet reduces title and summary to the distinct informative words used
// for similarity comparison: lowercased, split on non-alphanumeric runs,
// short words and stop words removed.
func TokenSet(title, summary string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(title+" "+summary), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// Jaccard is intersection over union of two token sets. Two empty sets have
// nothing in common and score zero.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Window supplies the stored mentions a candidate is compared against.
type Window interface {
	RecentMentions(ctx context.Context, since time.Time) ([]mention.Mention, error)
}

// Detector flags incoming items that restate a story already stored within
// the lookback window. Comparison is partitioned by origin: the same wire
// story monitored for two different clients stores once per client.
type Detector struct {
	window    Window
	threshold float64
	lookback  time.Duration
}

func NewDetector(window Window) *Detector {
	return &Detector{
		window:    window,
		threshold: DefaultThreshold,
		lookback:  DefaultWindow,
	}
}

// IsDuplicate reports whether the candidate matches a stored mention of the
// same origin at or above the similarity threshold, along with the title of
// the first stored match for the suppression log. The caller decides what a
// lookup error means; the detector just reports it.
func (d *Detector) IsDuplicate(ctx context.Context, origin, title, summary string, now time.Time) (bool, string, error) {
	candidate := TokenSet(title, summary)
	if len(candidate) == 0 {
		return false, "", nil
	}

	recent, err := d.window.RecentMentions(ctx, now.Add(-d.lookback))
	if err != nil {
		return false, "", err
	}

	for _, stored := range recent {
		if stored.Origin != origin {
			continue
		}
		if Jaccard(candidate, TokenSet(stored.Title, stored.Summary)) >= d.threshold {
			return true, stored.Title, nil
		}
	}
	return false, "", nil
}
