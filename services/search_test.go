package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partschat/config"
)

func keywordSearchService(t *testing.T) *SearchService {
	t.Helper()
	s := NewSearchService(testCatalog(t), config.EmbeddingConfig{})
	require.False(t, s.VectorEnabled())
	return s
}

func TestKeywordSearchScoring(t *testing.T) {
	s := keywordSearchService(t)

	results := s.Search(context.Background(), "ice maker", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "PS11752779", results[0].Product.PartNumber)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestKeywordSearchPartialScore(t *testing.T) {
	s := keywordSearchService(t)

	// Two of three words match the dishrack wheel, so its score is 2/3.
	results := s.Search(context.Background(), "upper rack wheel", 10)
	require.NotEmpty(t, results)
	byPart := make(map[string]float64)
	for _, r := range results {
		byPart[r.Product.PartNumber] = r.Score
	}
	assert.InDelta(t, 2.0/3.0, byPart["PS3406971"], 1e-9)
}

func TestKeywordSearchDescendingAndTruncated(t *testing.T) {
	s := keywordSearchService(t)

	results := s.Search(context.Background(), "door latch", 2)
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	// Both full matches outrank every half match, catalog order breaks the tie.
	assert.Equal(t, "PS11752780", results[0].Product.PartNumber)
	assert.Equal(t, "PS11756967", results[1].Product.PartNumber)
}

func TestKeywordSearchDiscardsZeroScores(t *testing.T) {
	s := keywordSearchService(t)

	results := s.Search(context.Background(), "zzzzz qqqqq", 10)
	assert.Empty(t, results)

	results = s.Search(context.Background(), "", 10)
	assert.Empty(t, results)
}

func TestKeywordSearchStableAcrossCalls(t *testing.T) {
	s := keywordSearchService(t)

	first := s.Search(context.Background(), "door latch", 10)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Search(context.Background(), "door latch", 10))
	}
}

func TestRelevantProductsDeduplicates(t *testing.T) {
	s := keywordSearchService(t)

	products := s.RelevantProducts(context.Background(), "door latch", 10)
	seen := make(map[string]bool)
	for _, p := range products {
		assert.False(t, seen[p.PartNumber], "part %s appeared twice", p.PartNumber)
		seen[p.PartNumber] = true
	}
	require.NotEmpty(t, products)
	assert.Equal(t, "PS11752780", products[0].PartNumber)
	assert.Equal(t, 1.0, products[0].RelevanceScore)
}

func TestMockEmbeddingsEnableVectorIndex(t *testing.T) {
	s := NewSearchService(testCatalog(t), config.EmbeddingConfig{Mock: true})
	require.True(t, s.VectorEnabled())

	// Vector results resolve back to catalog products regardless of what the
	// mock embeddings rank first.
	results := s.Search(context.Background(), "refrigerator door bin", 3)
	require.NotEmpty(t, results)
	require.LessOrEqual(t, len(results), 3)
	for _, r := range results {
		_, ok := s.catalog.ProductByPart(r.Product.PartNumber)
		assert.True(t, ok)
	}
}

func TestMockEmbeddingDeterministic(t *testing.T) {
	embed := mockEmbeddingFunc()

	a, err := embed(context.Background(), "some text")
	require.NoError(t, err)
	b, err := embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, mockEmbeddingDim)

	c, err := embed(context.Background(), "other text")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
