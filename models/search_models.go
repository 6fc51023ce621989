package models

// SearchResult is one relevance-scored catalog record. In vector mode a
// product can appear once per indexed view; callers that build LLM context use
// the deduplicated EnhancedProduct form instead.
type SearchResult struct {
	Score   float64 `json:"score"`
	Product Product `json:"product"`
}

// SearchResponse is the body of GET /api/semantic-search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// EnhancedProduct is a product annotated with its relevance to a query,
// returned by GET /api/products/enhanced and used for LLM context blocks.
type EnhancedProduct struct {
	Product
	RelevanceScore float64 `json:"relevanceScore"`
}
