package classify

import "testing"

func TestInternationalHostAndPath(t *testing.T) {
	t.Parallel()

	intl := NewLanguageInternational()

	cases := []struct {
		name string
		link string
		want bool
	}{
		{"uk edition", "https://news.example.co.uk/story", true},
		{"australian edition", "https://news.example.com.au/story", true},
		{"uk path segment", "https://example.com/uk-news/story", true},
		{"domestic outlet", "https://example.com/story", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := intl.International("Short title", "", tc.link, "example")
			if got != tc.want {
				t.Fatalf("International(%q) = %v, want %v", tc.link, got, tc.want)
			}
		})
	}
}

func TestInternationalLanguageDetection(t *testing.T) {
	t.Parallel()

	intl := NewLanguageInternational()

	spanish := intl.International(
		"La aerolínea anuncia nuevas rutas internacionales",
		"La compañía presentó su plan de expansión para el próximo año con vuelos adicionales.",
		"https://example.com/story", "example")
	if !spanish {
		t.Fatalf("spanish text should be classified as international")
	}

	english := intl.International(
		"Airline Announces Expanded Community Partnership",
		"The company presented its expansion plan for the coming year with additional programs.",
		"https://example.com/story", "example")
	if english {
		t.Fatalf("english text should not be classified as international")
	}
}
