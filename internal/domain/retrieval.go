package domain

// RetrievalResult is one semantic-search hit. Ephemeral: produced per request,
// never persisted.
type RetrievalResult struct {
	Content    string         `json:"content"`
	Source     string         `json:"source"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
