package classify

import (
	"net/url"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Country-code suffixes for editions outside the monitored market.
var internationalHostSuffixes = []string{
	".co.uk",
	".org.uk",
	".com.au",
	".net.au",
	".co.nz",
	".co.in",
	".co.za",
	".ie",
	".de",
	".fr",
	".es",
	".it",
	".nl",
	".se",
	".in",
	".cn",
	".jp",
	".kr",
	".br",
	".mx",
	".ar",
}

var internationalPathSegments = []string{
	"/en-gb/",
	"/en-au/",
	"/en-in/",
	"/uk-news/",
	"/world-news/",
}

// LanguageInternational combines a host and path heuristic with statistical
// language detection: items that read as something other than English are
// treated as foreign-market coverage.
type LanguageInternational struct {
	detector lingua.LanguageDetector
}

func NewLanguageInternational() *LanguageInternational {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Italian,
			lingua.Portuguese,
		).
		WithMinimumRelativeDistance(0.25).
		Build()
	return &LanguageInternational{detector: detector}
}

func (l *LanguageInternational) International(title, summary, link, source string) bool {
	if l == nil {
		return false
	}

	if hostIsInternational(link) {
		return true
	}

	lowerLink := strings.ToLower(link)
	for _, segment := range internationalPathSegments {
		if strings.Contains(lowerLink, segment) {
			return true
		}
	}

	// Short titles do not carry enough signal for the detector; skip rather
	// than guess.
	text := strings.TrimSpace(title + " " + summary)
	if len(text) < 40 {
		return false
	}
	if language, exists := l.detector.DetectLanguageOf(text); exists {
		return language != lingua.English
	}
	return false
}

func hostIsInternational(link string) bool {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Hostname() == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, suffix := range internationalHostSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
