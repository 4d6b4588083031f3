package schema

import "testing"

func TestValidateAcceptsMinimalPayload(t *testing.T) {
	t.Parallel()

	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := validator.Validate([]byte(`{
		"title": "Red Cross Opens Shelter",
		"link": "https://example.com/shelter",
		"origin": "redcross"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["title"] != "Red Cross Opens Shelter" {
		t.Fatalf("unexpected document: %v", doc)
	}
}

func TestValidateRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{"title": `},
		{"missing link", `{"title": "A Story", "origin": "delta"}`},
		{"missing origin", `{"title": "A Story", "link": "https://example.com/a"}`},
		{"empty title", `{"title": "", "link": "https://example.com/a", "origin": "delta"}`},
		{"unknown field", `{"title": "A", "link": "https://example.com/a", "origin": "delta", "rating": 5}`},
		{"bad sentiment", `{"title": "A", "link": "https://example.com/a", "origin": "delta", "sentiment": "great"}`},
		{"array payload", `[{"title": "A", "link": "https://example.com/a", "origin": "delta"}]`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := validator.Validate([]byte(tc.payload)); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}
