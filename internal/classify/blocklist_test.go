package classify

import "testing"

func TestDomainBlocklist(t *testing.T) {
	t.Parallel()

	blocklist := NewDomainBlocklist([]string{"Tabloid.example", "www.junk.example"})

	cases := []struct {
		link string
		want bool
	}{
		{"https://tabloid.example/story", true},
		{"https://www.tabloid.example/story", true},
		{"https://amp.tabloid.example/story", true},
		{"https://junk.example/story", true},
		{"https://example.com/story", false},
		{"https://nottabloid.example.com/story", false},
		{"not a url", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := blocklist.Blocked(tc.link); got != tc.want {
			t.Fatalf("Blocked(%q) = %v, want %v", tc.link, got, tc.want)
		}
	}
}

func TestDomainBlocklistEmpty(t *testing.T) {
	t.Parallel()

	if NewDomainBlocklist(nil).Blocked("https://anything.example/x") {
		t.Fatalf("empty blocklist must not block")
	}
	var nilBlocklist *DomainBlocklist
	if nilBlocklist.Blocked("https://anything.example/x") {
		t.Fatalf("nil blocklist must not block")
	}
}
