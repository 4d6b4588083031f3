package classify

import (
	"net/url"
	"strings"
)

// DomainBlocklist rejects links whose host matches, or is a subdomain of, a
// configured outlet domain.
type DomainBlocklist struct {
	domains map[string]struct{}
}

func NewDomainBlocklist(domains []string) *DomainBlocklist {
	set := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		normalized := strings.ToLower(strings.TrimSpace(domain))
		normalized = strings.TrimPrefix(normalized, "www.")
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return &DomainBlocklist{domains: set}
}

func (b *DomainBlocklist) Blocked(link string) bool {
	if b == nil || len(b.domains) == 0 {
		return false
	}

	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Hostname() == "" {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for candidate := host; candidate != ""; {
		if _, ok := b.domains[candidate]; ok {
			return true
		}
		dot := strings.Index(candidate, ".")
		if dot < 0 {
			break
		}
		candidate = candidate[dot+1:]
	}
	return false
}
