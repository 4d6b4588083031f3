package filter

import "strings"

// Blocklist reports whether a link's outlet is barred outright.
type Blocklist interface {
	Blocked(link string) bool
}

// International reports whether an item covers a non-domestic edition or
// market irrelevant to the monitored clients.
type International interface {
	International(title, summary, link, source string) bool
}

// Chain runs the rejection predicates in a fixed order; the first hit drops
// the item and the rest are skipped. An item that survives every predicate is
// accepted.
type Chain struct {
	rules         *Rules
	blocklist     Blocklist
	international International
}

func NewChain(rules *Rules, blocklist Blocklist, international International) *Chain {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Chain{
		rules:         rules,
		blocklist:     blocklist,
		international: international,
	}
}

// Reject returns true, with a short reason for the run report, when the item
// should be dropped. The external blocklist and international predicates are
// advisory: a panic inside either one counts as "not rejected" so a broken
// classifier can only let extra items through, never silence an origin.
func (c *Chain) Reject(kind Kind, title, summary, source, link string) (bool, string) {
	lowerTitle := strings.ToLower(title)
	lowerLink := strings.ToLower(link)
	text := lowerTitle + " " + strings.ToLower(summary)
	haystack := text + " " + strings.ToLower(source)

	if term := containsAny(haystack, c.rules.PressReleaseMarkers); term != "" {
		return true, "press_release:" + term
	}

	if c.blocklist != nil && failOpen(func() bool { return c.blocklist.Blocked(link) }) {
		return true, "blocklist"
	}

	if c.international != nil && failOpen(func() bool {
		return c.international.International(title, summary, link, source)
	}) {
		return true, "international"
	}

	if c.rules.EarningsSnapshotPattern.MatchString(title) {
		return true, "earnings_snapshot"
	}
	for _, leadIn := range c.rules.OpinionLeadIns {
		if strings.HasPrefix(lowerTitle, leadIn) {
			return true, "opinion:" + leadIn
		}
	}
	if seg := containsAny(lowerLink, c.rules.OpinionPathSegments); seg != "" {
		return true, "opinion:" + seg
	}
	if term := containsAny(text, c.rules.ShoppingKeywords); term != "" {
		return true, "shopping:" + term
	}
	if c.rules.CurrencyTitlePattern.MatchString(title) {
		return true, "shopping:price_in_title"
	}
	if term := containsAny(text, c.rules.StockKeywords); term != "" {
		return true, "stock:" + term
	}
	if c.rules.StockMovementPattern.MatchString(title) {
		return true, "stock:movement"
	}

	switch kind {
	case KindAirline:
		return c.rejectAirline(text)
	case KindBrand:
		return c.rejectBrand(text)
	case KindMarketplace:
		return c.rejectMarketplace(text)
	default:
		// KindDefault and KindAcceptAll take everything the universal rules
		// let through.
		return false, ""
	}
}

func (c *Chain) rejectAirline(text string) (bool, string) {
	if term := containsAny(text, c.rules.AirlineIncidentTerms); term != "" {
		return true, "airline_incident:" + term
	}
	if term := containsAny(text, c.rules.AirlineRouteTerms); term != "" {
		return true, "airline_route:" + term
	}
	if term := containsAny(text, c.rules.AirlineSecurityTerms); term != "" {
		return true, "airline_security:" + term
	}
	if term := containsAny(text, c.rules.AirlineIndustryTerms); term != "" {
		return true, "airline_industry:" + term
	}
	if term := containsAny(text, c.rules.AirlineRegulatorTerms); term != "" {
		return true, "airline_regulator:" + term
	}
	return false, ""
}

// rejectBrand drops geographic false positives outright, then requires at
// least one corporate identity term before the item counts as coverage of the
// company rather than an unrelated name match.
func (c *Chain) rejectBrand(text string) (bool, string) {
	if term := containsAny(text, c.rules.BrandGeoFalsePositives); term != "" {
		return true, "brand_geo:" + term
	}
	if containsAny(text, c.rules.BrandIdentityTerms) == "" {
		return true, "brand_no_identity_term"
	}
	return false, ""
}

// rejectMarketplace drops ticket-purchase guides and event coverage, except
// that a business-news override keeps event coverage in: a concert recap that
// also discusses fee litigation is still a client story.
func (c *Chain) rejectMarketplace(text string) (bool, string) {
	if term := containsAny(text, c.rules.MarketplaceTicketGuideTerms); term != "" {
		return true, "marketplace_guide:" + term
	}
	if term := containsAny(text, c.rules.MarketplaceEventTerms); term != "" {
		if containsAny(text, c.rules.MarketplaceBusinessOverrides) != "" {
			return false, ""
		}
		return true, "marketplace_event:" + term
	}
	return false, ""
}

func failOpen(pred func() bool) (rejected bool) {
	defer func() {
		if r := recover(); r != nil {
			rejected = false
		}
	}()
	return pred()
}
