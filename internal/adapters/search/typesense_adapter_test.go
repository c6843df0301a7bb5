package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEntryDocument(t *testing.T) {
	doc := buildEntryDocument("Hånom", []string{" hanom ", "HÅNOM", "", "hanum", "hanom"})

	assert.Equal(t, "Hånom", doc["headword"])
	assert.Equal(t, "hånom", doc["normalized"])
	assert.Equal(t, DocumentID("Hånom"), doc["id"])
	assert.Equal(t, []string{"hanom", "hanum"}, doc["variants"])
}

func TestBuildEntryDocumentWithoutVariants(t *testing.T) {
	doc := buildEntryDocument("lahi", nil)
	_, ok := doc["variants"]
	assert.False(t, ok)
}

func TestDocumentIDStable(t *testing.T) {
	assert.Equal(t, DocumentID("a'gang"), DocumentID("a'gang"))
	assert.NotEqual(t, DocumentID("a'gang"), DocumentID("agang"))
	assert.Len(t, DocumentID("ñåña"), 36)
}

func TestNormalizedVariantsCap(t *testing.T) {
	variants := make([]string, 0, MaxIndexedVariants+10)
	for i := 0; i < MaxIndexedVariants+10; i++ {
		variants = append(variants, string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	assert.Len(t, normalizedVariants("zz", variants), MaxIndexedVariants)
}

func TestHitsFromDocuments(t *testing.T) {
	hits := hitsFromDocuments([]map[string]interface{}{
		{"headword": "hånom"},
		{"id": "orphan"},
		{"headword": "hanum"},
	})

	require.Len(t, hits, 2)
	assert.Equal(t, "hånom", hits[0].Headword)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "hanum", hits[1].Headword)
	assert.InDelta(t, 0.5, hits[1].Score, 1e-9)
}

func TestPerPage(t *testing.T) {
	assert.Equal(t, 10, perPage(10))
	assert.Equal(t, maxPerPage, perPage(0))
	assert.Equal(t, maxPerPage, perPage(1000))
}
