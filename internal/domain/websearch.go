package domain

// WebFinding is a lightweight search snippet used to enrich chat context.
type WebFinding struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
