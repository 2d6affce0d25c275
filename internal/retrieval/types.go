package retrieval

// Document is a retrieved knowledge-base document.
//
// A Document is immutable once constructed: the retriever hands out the same
// value on cache hits and misses alike, so callers must not mutate it.
type Document struct {
	Content   string  `json:"content"`
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance"`
}

// Rule maps a group of trigger keywords to a canned document. A rule matches
// when any of its keywords appears as a substring of the lower-cased query.
type Rule struct {
	Keywords []string
	Doc      Document
}
