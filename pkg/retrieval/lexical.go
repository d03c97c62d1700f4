package retrieval

import (
	"regexp"
	"sort"
	"strings"
)

// stopWords are dropped from queries before scoring. Short tokens (<= 2
// runes) are dropped separately.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "was": {}, "one": {}, "our": {},
	"has": {}, "how": {}, "who": {}, "did": {}, "its": {}, "out": {},
	"get": {}, "see": {}, "now": {}, "new": {}, "may": {}, "any": {},
	"this": {}, "that": {}, "what": {}, "with": {}, "your": {},
	"from": {}, "have": {}, "will": {}, "about": {}, "please": {},
	"would": {}, "could": {}, "there": {}, "their": {}, "where": {},
}

var nonWord = regexp.MustCompile(`[^a-z0-9\s]+`)

// LexicalRetriever scores documents by keyword overlap: a token found in the
// document name scores +10, each whole-word occurrence in the content +1.
type LexicalRetriever struct{}

func NewLexicalRetriever() *LexicalRetriever {
	return &LexicalRetriever{}
}

// Tokenize lower-cases, strips punctuation, splits on whitespace and drops
// stop words and tokens of two characters or fewer.
func Tokenize(query string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(query), " ")

	var tokens []string
	for _, field := range strings.Fields(cleaned) {
		if len(field) <= 2 {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

type scoredDocument struct {
	doc   Document
	score int
	order int
}

// Retrieve returns up to topK documents ranked by descending score.
// Cold start (no usable query tokens) returns the first topK documents
// verbatim; if no document scores above zero, the single best (or first)
// document is returned so callers always receive some context.
func (r *LexicalRetriever) Retrieve(query string, docs []Document, topK int) Result {
	if topK <= 0 || len(docs) == 0 {
		return nil
	}

	docs = dedupeByID(docs)

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return toResult(docs, topK)
	}

	scored := make([]scoredDocument, 0, len(docs))
	for i, doc := range docs {
		scored = append(scored, scoredDocument{
			doc:   doc,
			score: scoreDocument(doc, tokens),
			order: i,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if scored[0].score == 0 {
		// nothing matched, fall back to a single document
		return toResult([]Document{scored[0].doc}, 1)
	}

	ranked := make([]Document, len(scored))
	for i, s := range scored {
		ranked[i] = s.doc
	}
	return toResult(ranked, topK)
}

func scoreDocument(doc Document, tokens []string) int {
	name := strings.ToLower(doc.Name)
	content := strings.ToLower(doc.Content)

	score := 0
	for _, token := range tokens {
		if strings.Contains(name, token) {
			score += 10
		}
		wordPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(token) + `\b`)
		score += len(wordPattern.FindAllStringIndex(content, -1))
	}
	return score
}

func dedupeByID(docs []Document) []Document {
	seen := make(map[string]bool, len(docs))
	out := docs[:0:0]
	for _, doc := range docs {
		if doc.ID != "" && seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		out = append(out, doc)
	}
	return out
}

func toResult(docs []Document, topK int) Result {
	if len(docs) > topK {
		docs = docs[:topK]
	}
	result := make(Result, len(docs))
	for i, doc := range docs {
		result[i] = ContextItem{SourceName: doc.Name, Content: doc.Content}
	}
	return result
}
