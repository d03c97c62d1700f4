package retrieval

// Document is an immutable knowledge snapshot supplied per retrieval call.
// The name participates in lexical scoring with a higher weight than content.
type Document struct {
	ID      string
	Name    string
	Content string
}

// ContextItem is one ranked piece of context handed to the reply generator.
type ContextItem struct {
	SourceName string
	Content    string
}

// Result is ordered by descending relevance and bounded by the caller's topK.
// A non-empty corpus always yields a non-empty result.
type Result []ContextItem
