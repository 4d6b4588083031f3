package filter

import (
	"regexp"
	"strings"
)

// Kind selects the per-origin branch of the decision table. The enumeration
// is closed: a new monitored client gets a new Kind and a new branch, never
// an edit to the universal rules.
type Kind int

const (
	KindDefault Kind = iota
	KindAirline
	KindAcceptAll
	KindBrand
	KindMarketplace
)

// KindForOrigin resolves an origin tag to its rule branch. Resolved once per
// feed source at configuration time.
func KindForOrigin(origin string) Kind {
	switch strings.ToLower(strings.TrimSpace(origin)) {
	case "delta":
		return KindAirline
	case "redcross":
		return KindAcceptAll
	case "amazon":
		return KindBrand
	case "stubhub":
		return KindMarketplace
	default:
		return KindDefault
	}
}

// Rules is the immutable classification data for the whole chain, loaded once
// at startup and injected; no package-level mutable state.
type Rules struct {
	PressReleaseMarkers []string

	EarningsSnapshotPattern *regexp.Regexp
	OpinionLeadIns          []string
	OpinionPathSegments     []string
	ShoppingKeywords        []string
	CurrencyTitlePattern    *regexp.Regexp
	StockKeywords           []string
	StockMovementPattern    *regexp.Regexp

	AirlineIncidentTerms  []string
	AirlineRouteTerms     []string
	AirlineSecurityTerms  []string
	AirlineIndustryTerms  []string
	AirlineRegulatorTerms []string

	BrandGeoFalsePositives []string
	BrandIdentityTerms     []string

	MarketplaceTicketGuideTerms  []string
	MarketplaceEventTerms        []string
	MarketplaceBusinessOverrides []string
}

func DefaultRules() *Rules {
	return &Rules{
		PressReleaseMarkers: []string{
			"pr newswire",
			"prnewswire",
			"prweb",
			"business wire",
			"businesswire",
			"globe newswire",
			"globenewswire",
			"accesswire",
			"newsfile corp",
			"press release",
			"news provided by",
		},

		EarningsSnapshotPattern: regexp.MustCompile(`(?i)earnings snapshot`),
		OpinionLeadIns: []string{
			"opinion:",
			"opinion |",
			"editorial:",
			"op-ed:",
			"commentary:",
			"column:",
			"letters:",
			"letter to the editor",
		},
		OpinionPathSegments: []string{
			"/opinion/",
			"/opinions/",
			"/editorial/",
			"/editorials/",
			"/op-ed/",
			"/oped/",
			"/commentary/",
			"/letters/",
			"/columnists/",
			"/blogs/",
		},
		ShoppingKeywords: []string{
			"deal of the day",
			"best deals",
			"discount code",
			"promo code",
			"coupon",
			"% off",
			"shop now",
			"gift guide",
			"best gifts",
			"black friday",
			"cyber monday",
			"prime day",
			"on sale now",
			"buying guide",
			"lowest price",
		},
		CurrencyTitlePattern: regexp.MustCompile(`\$\d[\d,]*(\.\d+)?`),
		StockKeywords: []string{
			"stock price",
			"share price",
			"shares of",
			"nasdaq:",
			"nyse:",
			"s&p 500",
			"dow jones",
			"market cap",
			"dividend",
			"price target",
			"analyst rating",
			"earnings call",
			"premarket",
			"pre-market",
			"after-hours trading",
			"52-week",
		},
		StockMovementPattern: regexp.MustCompile(
			`(?i)(shares?|stock)\s+(rise|rises|rose|fall|falls|fell|jump|jumps|jumped|` +
				`surge|surges|surged|slip|slips|slipped|slide|slides|slid|climb|climbs|climbed|` +
				`drop|drops|dropped|dip|dips|dipped|soar|soars|soared|tumble|tumbles|tumbled|` +
				`gain|gains|gained|sink|sinks|sank)\b`),

		AirlineIncidentTerms: []string{
			"crash",
			"emergency landing",
			"emergency slide",
			"turbulence",
			"evacuat",
			"bird strike",
			"engine failure",
			"diverted",
			"mayday",
			"near miss",
			"grounded fleet",
		},
		AirlineRouteTerms: []string{
			"new route",
			"new routes",
			"nonstop service",
			"non-stop service",
			"adds flights",
			"new destination",
			"resumes flights",
			"resumes service",
			"launches service",
			"daily flights",
			"seasonal service",
		},
		AirlineSecurityTerms: []string{
			"tsa",
			"security checkpoint",
			"security line",
			"precheck",
			"airport security",
		},
		AirlineIndustryTerms: []string{
			"airline industry",
			"airlines industry",
			"air travel demand",
			"aviation industry",
			"jet fuel prices",
			"industry-wide",
		},
		AirlineRegulatorTerms: []string{
			"faa",
			"ntsb",
			"department of transportation",
			"dot ruling",
		},

		BrandGeoFalsePositives: []string{
			"amazon river",
			"amazon rainforest",
			"amazon basin",
			"amazon jungle",
			"amazonas",
			"amazonian",
		},
		BrandIdentityTerms: []string{
			"amzn",
			"aws",
			"amazon web services",
			"prime video",
			"alexa",
			"kindle",
			"whole foods",
			"bezos",
			"jassy",
			"seattle",
			"hq2",
			"fulfillment center",
			"e-commerce",
			"ecommerce",
			"marketplace sellers",
		},

		MarketplaceTicketGuideTerms: []string{
			"how to buy tickets",
			"how to get tickets",
			"cheapest tickets",
			"ticket prices for",
			"where to buy tickets",
			"best prices on tickets",
			"ticket deals",
		},
		MarketplaceEventTerms: []string{
			"setlist",
			"set list",
			"concert review",
			"tour kicks off",
			"tour opener",
			"halftime show",
			"opening night",
			"recap",
			"highlights",
			"box score",
			"playoff game",
			"final score",
		},
		MarketplaceBusinessOverrides: []string{
			"fees",
			"fee transparency",
			"all-in pricing",
			"lawsuit",
			"litigation",
			"settlement",
			"antitrust",
			"regulation",
			"regulators",
			"legislation",
			"acquisition",
			"merger",
			"ipo",
			"earnings",
			"revenue",
			"ceo",
			"layoffs",
			"data breach",
			"scalping",
			"ticket bots",
			"partnership",
		},
	}
}

func containsAny(text string, terms []string) string {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return term
		}
	}
	return ""
}
