package domain

// ContentMeta is the structured metadata stored alongside each vector index
// entry. Fields mirror the content row so a search hit can be rendered
// without touching the record store.
type ContentMeta struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	Link      string `json:"link"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

// VectorEntry is one indexable unit, keyed by the content id.
type VectorEntry struct {
	ID       string
	Document string
	Meta     ContentMeta
}

// VectorHit is a raw similarity result. Distance is nil when the index did
// not report one; smaller means closer.
type VectorHit struct {
	ID       string
	Document string
	Distance *float64
	Meta     ContentMeta
}

// SearchResult is a user-facing search hit with a similarity score in [0,1].
type SearchResult struct {
	ID       string           `json:"id"`
	Document string           `json:"document"`
	Score    float64          `json:"score"`
	Metadata SearchResultMeta `json:"metadata"`
}

// SearchResultMeta is the displayable subset of the indexed metadata.
type SearchResultMeta struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Type  string `json:"type"`
}

// SearchResponse is the synthesized answer plus supporting results.
type SearchResponse struct {
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}
