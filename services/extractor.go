package services

import (
	"regexp"
	"strings"

	"partschat/models"
)

var (
	// Vendor part-number format: "PS" prefix followed by at least six digits.
	partNumberPattern = regexp.MustCompile(`(?i)\bPS\d{6,}\b`)
	// Explicit "model WDT780SAEM1" style references.
	modelPhrasePattern = regexp.MustCompile(`(?i)\bmodel\s+([A-Za-z0-9]+)`)
	// Everything that is not a word character becomes a word boundary when
	// scanning for bare model numbers.
	punctuationPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// Extraction is the outcome of running the query extractor: either identifier
// may be empty when the query carries no usable token.
type Extraction struct {
	PartNumber  string
	ModelNumber string
}

// QueryExtractor pulls part and model numbers out of free-text queries.
// Extraction is deterministic and total: it always returns, possibly with both
// fields empty.
type QueryExtractor struct {
	catalog *CatalogStore
}

func NewQueryExtractor(catalog *CatalogStore) *QueryExtractor {
	return &QueryExtractor{catalog: catalog}
}

// Extract finds a part number and model number in the query. A part number
// matching the vendor pattern anywhere in the text wins; otherwise the
// conversation context's last part number is reused, which is how "this part"
// follow-ups resolve. A model number is taken from an explicit "model <token>"
// phrase first; failing that, each word of the punctuation-stripped query is
// tested against the known model numbers in catalog declaration order.
func (e *QueryExtractor) Extract(query string, convCtx models.ConversationContext) Extraction {
	var ext Extraction

	if match := partNumberPattern.FindString(query); match != "" {
		ext.PartNumber = strings.ToUpper(match)
	} else if convCtx.LastPartNumber != "" {
		ext.PartNumber = strings.ToUpper(convCtx.LastPartNumber)
	}

	if m := modelPhrasePattern.FindStringSubmatch(query); m != nil {
		ext.ModelNumber = strings.ToUpper(m[1])
		return ext
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(punctuationPattern.ReplaceAllString(query, " ")) {
		words[strings.ToUpper(w)] = true
	}
	for _, model := range e.catalog.ModelNumbers() {
		if words[strings.ToUpper(model)] {
			ext.ModelNumber = strings.ToUpper(model)
			break
		}
	}

	return ext
}
