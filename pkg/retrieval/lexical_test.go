package retrieval

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"simple", "shipping costs", []string{"shipping", "costs"}},
		{"lowercases and strips punctuation", "What's the PRICE?!", []string{"price"}},
		{"drops stop words", "what is the price for this", []string{"price"}},
		{"drops short tokens", "is it ok to go", nil},
		{"keeps digits", "size 42 availability", []string{"size", "availability"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func testDocs() []Document {
	return []Document{
		{ID: "1", Name: "Shipping Policy", Content: "We ship worldwide. Shipping takes 5 days."},
		{ID: "2", Name: "Returns", Content: "Returns accepted within 30 days of delivery."},
		{ID: "3", Name: "Pricing Guide", Content: "Our price list covers every product tier."},
	}
}

func TestRetrieveRanksByScore(t *testing.T) {
	r := NewLexicalRetriever()

	result := r.Retrieve("shipping time", testDocs(), 2)

	if len(result) != 2 {
		t.Fatalf("len = %d, want 2", len(result))
	}
	// "shipping" hits the name (+10) and the content twice (+2)
	if result[0].SourceName != "Shipping Policy" {
		t.Errorf("top result = %q, want Shipping Policy", result[0].SourceName)
	}
}

func TestRetrieveNameMatchOutweighsContent(t *testing.T) {
	r := NewLexicalRetriever()
	docs := []Document{
		{ID: "1", Name: "General FAQ", Content: "price price price price price"},
		{ID: "2", Name: "Price List", Content: "see the table below"},
	}

	result := r.Retrieve("price", docs, 1)

	if len(result) != 1 || result[0].SourceName != "Price List" {
		t.Errorf("name match must outrank repeated content hits, got %+v", result)
	}
}

func TestRetrieveColdStart(t *testing.T) {
	r := NewLexicalRetriever()

	// Query reduces to zero tokens: return the first topK documents
	result := r.Retrieve("is it ok", testDocs(), 2)

	if len(result) != 2 {
		t.Fatalf("len = %d, want 2", len(result))
	}
	if result[0].SourceName != "Shipping Policy" || result[1].SourceName != "Returns" {
		t.Errorf("cold start must preserve document order, got %+v", result)
	}
}

func TestRetrieveAllZeroScores(t *testing.T) {
	r := NewLexicalRetriever()

	result := r.Retrieve("quantum blockchain", testDocs(), 3)

	// Nothing matches: exactly one document comes back
	if len(result) != 1 {
		t.Fatalf("len = %d, want 1", len(result))
	}
}

func TestRetrieveDedupesById(t *testing.T) {
	r := NewLexicalRetriever()
	docs := append(testDocs(), Document{ID: "1", Name: "Shipping Policy", Content: "duplicate"})

	result := r.Retrieve("shipping", docs, 5)

	count := 0
	for _, item := range result {
		if item.SourceName == "Shipping Policy" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate document returned %d times", count)
	}
}

func TestRetrieveEmptyInputs(t *testing.T) {
	r := NewLexicalRetriever()

	if got := r.Retrieve("price", nil, 3); got != nil {
		t.Errorf("no docs must return nil, got %v", got)
	}
	if got := r.Retrieve("price", testDocs(), 0); got != nil {
		t.Errorf("topK 0 must return nil, got %v", got)
	}
}
