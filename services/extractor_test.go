package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partschat/models"
)

func testCatalog(t *testing.T) *CatalogStore {
	t.Helper()
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	return catalog
}

func TestExtractPartNumber(t *testing.T) {
	e := NewQueryExtractor(testCatalog(t))

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"plain", "tell me about PS11752778", "PS11752778"},
		{"lowercase", "is ps11752778 in stock?", "PS11752778"},
		{"mixed case", "Ps11752779 please", "PS11752779"},
		{"inside sentence", "I need part PS11752781, the pump", "PS11752781"},
		{"too few digits", "what about PS12345?", ""},
		{"no part", "how do I fix my ice maker", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := e.Extract(tt.query, models.ConversationContext{})
			assert.Equal(t, tt.want, ext.PartNumber)
		})
	}
}

func TestExtractPartNumberFromContext(t *testing.T) {
	e := NewQueryExtractor(testCatalog(t))

	ext := e.Extract("is this part compatible with model WDT780SAEM1?",
		models.ConversationContext{LastPartNumber: "ps11752778"})
	assert.Equal(t, "PS11752778", ext.PartNumber)
	assert.Equal(t, "WDT780SAEM1", ext.ModelNumber)
}

func TestExtractExplicitPartBeatsContext(t *testing.T) {
	e := NewQueryExtractor(testCatalog(t))

	ext := e.Extract("what about PS11752780 instead?",
		models.ConversationContext{LastPartNumber: "PS11752778"})
	assert.Equal(t, "PS11752780", ext.PartNumber)
}

func TestExtractModelNumber(t *testing.T) {
	e := NewQueryExtractor(testCatalog(t))

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"model phrase", "does it fit model WDT780SAEM1", "WDT780SAEM1"},
		{"model phrase lowercase", "my model wdt750saem1 is broken", "WDT750SAEM1"},
		{"bare known model", "I have a WDT720SAEM1 dishwasher", "WDT720SAEM1"},
		{"bare model with punctuation", "fits my WDT780SAEM1? I hope so", "WDT780SAEM1"},
		{"unknown bare token ignored", "I have a ZZZ999 appliance", ""},
		{"no model", "how much is the water filter", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := e.Extract(tt.query, models.ConversationContext{})
			assert.Equal(t, tt.want, ext.ModelNumber)
		})
	}
}

func TestExtractModelPhraseWinsOverBareToken(t *testing.T) {
	e := NewQueryExtractor(testCatalog(t))

	// The explicit phrase names an unknown model while a known one also
	// appears in the text. The phrase still wins.
	ext := e.Extract("model XYZ123 not WDT780SAEM1", models.ConversationContext{})
	assert.Equal(t, "XYZ123", ext.ModelNumber)
}

func TestExtractTotalOnEmptyQuery(t *testing.T) {
	e := NewQueryExtractor(testCatalog(t))

	ext := e.Extract("", models.ConversationContext{})
	assert.Empty(t, ext.PartNumber)
	assert.Empty(t, ext.ModelNumber)
}
