package scoring

// DefaultNegativeKeywords disqualify a posting outright. Grouped by the
// reason the role is unsuitable; customize per user via Engine.Negative.
var DefaultNegativeKeywords = []string{
	// Too senior
	"ceo", "cto", "coo", "cfo", "founder", "co-founder", "vp of", "vice president",

	// Unrelated domains
	"medical doctor", "physician", "surgeon", "nurse practitioner",
	"truck driver", "delivery driver",
	"hair stylist", "barber",

	// Sketchy or low quality
	"crypto", "nft", "web3", "blockchain engineer",
	"make money fast", "work from home easy",
	"mlm", "multi-level",
}

// seniorMarkers flag a title as a senior-band role.
var seniorMarkers = []string{
	"lead", "head of", "head,", "director", "vp ", "vice president",
	"principal", "chief", "cto", "coo", "ceo", "cfo",
	"founding", "co-founder", "partner", "svp", "evp",
	"staff engineer", "staff developer", "distinguished",
}

// midMarkers flag a title as a mid-band role.
var midMarkers = []string{"senior", "sr ", "sr.", "manager", "team lead"}

// titleStopWords are ignored when tokenizing titles for similarity.
var titleStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"for": true, "in": true, "at": true, "to": true, "of": true,
}
