package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"partschat/config"
	"partschat/metrics"
	"partschat/models"
)

const (
	collectionName   = "partselect-products"
	mockEmbeddingDim = 1536

	searchModeVector  = "vector"
	searchModeKeyword = "keyword"
)

// productViews are the per-product text angles indexed in the vector store.
var productViews = []string{"name-desc", "part-category", "install-trouble", "compatibility"}

// SearchService ranks catalog records against free-text queries. When an
// embedding source is configured it maintains a chromem vector index with four
// views per product; otherwise, or when the index fails, it degrades to
// keyword-overlap scoring. Either way a request always gets an answer.
type SearchService struct {
	catalog    *CatalogStore
	collection *chromem.Collection
}

// NewSearchService builds the service and, when embeddings are configured,
// indexes the catalog. Index initialization is best-effort: any failure is
// logged and the service serves keyword results instead.
func NewSearchService(catalog *CatalogStore, cfg config.EmbeddingConfig) *SearchService {
	s := &SearchService{catalog: catalog}

	var embed chromem.EmbeddingFunc
	switch {
	case cfg.OpenAIAPIKey != "":
		embed = chromem.NewEmbeddingFuncOpenAI(cfg.OpenAIAPIKey, chromem.EmbeddingModelOpenAI3Small)
		log.Info().Msg("Vector search enabled with OpenAI embeddings")
	case cfg.Mock:
		embed = mockEmbeddingFunc()
		log.Warn().Msg("Vector search enabled with mock embeddings; results are not semantically meaningful")
	default:
		log.Info().Msg("No embedding source configured, using keyword search")
		return s
	}

	collection, err := chromem.NewDB().GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create vector collection, using keyword search")
		return s
	}

	indexed := 0
	for _, product := range catalog.Products() {
		for i, text := range viewTexts(product) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			doc := chromem.Document{
				ID:      fmt.Sprintf("%s-%d", product.PartNumber, i),
				Content: text,
				Metadata: map[string]string{
					"partNumber": product.PartNumber,
					"textType":   productViews[i],
				},
			}
			if err := collection.AddDocument(context.Background(), doc); err != nil {
				log.Warn().Err(err).Str("id", doc.ID).Msg("Failed to index product view")
				continue
			}
			indexed++
		}
	}
	log.Info().Int("documents", indexed).Int("products", len(catalog.Products())).Msg("Vector index built")

	s.collection = collection
	return s
}

// VectorEnabled reports whether the vector index is serving queries.
func (s *SearchService) VectorEnabled() bool {
	return s.collection != nil
}

// Search returns up to topK scored results, descending by score. Vector
// results may contain one entry per indexed view of the same product; keyword
// results are unique per product with ties broken by catalog order.
func (s *SearchService) Search(ctx context.Context, query string, topK int) []models.SearchResult {
	if topK <= 0 {
		topK = 5
	}

	if s.collection != nil {
		if count := s.collection.Count(); count > 0 {
			k := topK
			if k > count {
				k = count
			}
			matches, err := s.collection.Query(ctx, query, k, nil, nil)
			if err == nil {
				metrics.SearchQueriesTotal.WithLabelValues(searchModeVector).Inc()
				results := make([]models.SearchResult, 0, len(matches))
				for _, match := range matches {
					product, ok := s.catalog.ProductByPart(match.Metadata["partNumber"])
					if !ok {
						continue
					}
					results = append(results, models.SearchResult{
						Score:   float64(match.Similarity),
						Product: product,
					})
				}
				return results
			}
			log.Warn().Err(err).Msg("Vector query failed, falling back to keyword search")
		}
	}

	metrics.SearchQueriesTotal.WithLabelValues(searchModeKeyword).Inc()
	return s.keywordSearch(query, topK)
}

// RelevantProducts returns up to limit products for LLM context building,
// collapsing multiple views of the same product into one entry that keeps the
// highest score.
func (s *SearchService) RelevantProducts(ctx context.Context, query string, limit int) []models.EnhancedProduct {
	if limit <= 0 {
		limit = 3
	}

	seen := make(map[string]bool)
	var products []models.EnhancedProduct
	for _, result := range s.Search(ctx, query, limit) {
		if seen[result.Product.PartNumber] {
			continue
		}
		seen[result.Product.PartNumber] = true
		products = append(products, models.EnhancedProduct{
			Product:        result.Product,
			RelevanceScore: result.Score,
		})
	}
	return products
}

// keywordSearch scores each product by the fraction of query words appearing
// as a substring of its name, description, or part number. Zero-score entries
// are discarded; the sort is stable so catalog order breaks ties.
func (s *SearchService) keywordSearch(query string, topK int) []models.SearchResult {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var results []models.SearchResult
	for _, product := range s.catalog.Products() {
		text := strings.ToLower(product.Name + " " + product.Description + " " + product.PartNumber)
		matched := 0
		for _, word := range words {
			if strings.Contains(text, word) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		results = append(results, models.SearchResult{
			Score:   float64(matched) / float64(len(words)),
			Product: product,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func viewTexts(p models.Product) []string {
	return []string{
		p.Name + " " + p.Description,
		p.PartNumber + " " + p.Category,
		p.Installation + " " + p.Troubleshooting,
		"compatible with " + strings.Join(p.Compatibility, " "),
	}
}

// mockEmbeddingFunc mirrors the behavior of running without a real embedding
// model: vectors are pseudo-random, deterministic per input text, and
// normalized for cosine similarity. Nearest-neighbor results in this mode are
// essentially arbitrary.
func mockEmbeddingFunc() chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		h := fnv.New64a()
		h.Write([]byte(text))
		rng := rand.New(rand.NewSource(int64(h.Sum64())))

		vec := make([]float32, mockEmbeddingDim)
		var norm float64
		for i := range vec {
			v := rng.Float64() - 0.5
			vec[i] = float32(v)
			norm += v * v
		}
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
		return vec, nil
	}
}
