package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"partschat/models"
)

//go:embed data/catalog.json
var defaultCatalogJSON []byte

// CatalogStore holds the product catalog, compatibility matrix, and guides.
// It is populated once at startup and read-only afterwards, so concurrent
// requests can share it without locking.
type CatalogStore struct {
	products []models.Product
	byPart   map[string]int // part number -> index into products

	entries []models.CompatibilityEntry
	byModel map[string]int // model number -> index into entries

	installGuides map[string]models.InstallationGuide
	troubleGuides map[string]models.TroubleshootingGuide
}

// NewCatalogStore builds a store from catalog data, preserving declaration
// order for products and compatibility entries.
func NewCatalogStore(catalog models.Catalog) *CatalogStore {
	s := &CatalogStore{
		products:      catalog.Products,
		byPart:        make(map[string]int, len(catalog.Products)),
		entries:       catalog.Compatibility,
		byModel:       make(map[string]int, len(catalog.Compatibility)),
		installGuides: make(map[string]models.InstallationGuide, len(catalog.InstallationGuides)),
		troubleGuides: make(map[string]models.TroubleshootingGuide, len(catalog.TroubleshootingGuides)),
	}

	for i, p := range catalog.Products {
		s.byPart[strings.ToUpper(p.PartNumber)] = i
	}
	for i, e := range catalog.Compatibility {
		s.byModel[strings.ToUpper(e.ModelNumber)] = i
	}
	for part, guide := range catalog.InstallationGuides {
		s.installGuides[strings.ToUpper(part)] = guide
	}
	for issue, guide := range catalog.TroubleshootingGuides {
		s.troubleGuides[strings.ToLower(issue)] = guide
	}

	return s
}

// LoadDefaultCatalog loads the catalog embedded in the binary.
func LoadDefaultCatalog() (*CatalogStore, error) {
	var catalog models.Catalog
	if err := json.Unmarshal(defaultCatalogJSON, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	return NewCatalogStore(catalog), nil
}

// Validate reports catalog cross-reference problems: compatibility entries
// that list part numbers with no matching product. Orphans are logged as
// warnings rather than dropped silently at query time; the returned count is
// the number of orphaned references found.
func (s *CatalogStore) Validate() int {
	orphans := 0
	for _, entry := range s.entries {
		for _, part := range append(append([]string{}, entry.Refrigerator...), entry.Dishwasher...) {
			if _, ok := s.byPart[strings.ToUpper(part)]; !ok {
				orphans++
				log.Warn().
					Str("model_number", entry.ModelNumber).
					Str("part_number", part).
					Msg("Compatibility entry references unknown product")
			}
		}
	}
	return orphans
}

// Products returns all catalog products in declaration order.
func (s *CatalogStore) Products() []models.Product {
	return s.products
}

// ProductByPart looks up a product by part number, case-insensitively.
func (s *CatalogStore) ProductByPart(partNumber string) (models.Product, bool) {
	i, ok := s.byPart[strings.ToUpper(partNumber)]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// ModelNumbers returns the known appliance model numbers in catalog
// declaration order. Extraction ties break on this order.
func (s *CatalogStore) ModelNumbers() []string {
	numbers := make([]string, len(s.entries))
	for i, e := range s.entries {
		numbers[i] = e.ModelNumber
	}
	return numbers
}

// CompatibilityFor returns the compatibility entry for a model number.
func (s *CatalogStore) CompatibilityFor(modelNumber string) (models.CompatibilityEntry, bool) {
	i, ok := s.byModel[strings.ToUpper(modelNumber)]
	if !ok {
		return models.CompatibilityEntry{}, false
	}
	return s.entries[i], true
}

// CompatibilityBundle assembles the full compatibility payload for a model:
// both category lists plus the resolved product records for every listed part
// number. Listed parts with no matching product are dropped from the product
// list (Validate reports them at startup).
func (s *CatalogStore) CompatibilityBundle(modelNumber string) (*models.CompatibilityResult, bool) {
	entry, ok := s.CompatibilityFor(modelNumber)
	if !ok {
		return nil, false
	}

	var products []models.Product
	for _, part := range append(append([]string{}, entry.Refrigerator...), entry.Dishwasher...) {
		if p, ok := s.ProductByPart(part); ok {
			products = append(products, p)
		}
	}

	return &models.CompatibilityResult{
		Compatible:   true,
		ModelNumber:  entry.ModelNumber,
		Refrigerator: entry.Refrigerator,
		Dishwasher:   entry.Dishwasher,
		Products:     products,
	}, true
}

// CheckCompatibility decides whether a part fits a model. The verdict is true
// iff the part number appears in the list matching the part's own category; a
// dishwasher part is never checked against the refrigerator list and vice
// versa. The bundle is nil when either the part or the model is unknown.
func (s *CatalogStore) CheckCompatibility(partNumber, modelNumber string) (bool, *models.CompatibilityResult) {
	product, ok := s.ProductByPart(partNumber)
	if !ok {
		return false, nil
	}

	bundle, ok := s.CompatibilityBundle(modelNumber)
	if !ok {
		return false, nil
	}

	var categoryParts []string
	switch strings.ToLower(product.Category) {
	case "refrigerator":
		categoryParts = bundle.Refrigerator
	case "dishwasher":
		categoryParts = bundle.Dishwasher
	}

	for _, part := range categoryParts {
		if strings.EqualFold(part, product.PartNumber) {
			return true, bundle
		}
	}
	return false, bundle
}

// SearchProducts filters the catalog by a free-text query and an optional
// category. An exact part-number match always sorts ahead of substring matches
// on name, part number, or description; the category filter is a
// case-insensitive equality check.
func (s *CatalogStore) SearchProducts(query, category string) []models.Product {
	results := make([]models.Product, 0, len(s.products))

	if query == "" {
		results = append(results, s.products...)
	} else {
		lower := strings.ToLower(query)
		if exact, ok := s.ProductByPart(query); ok {
			results = append(results, exact)
		}
		for _, p := range s.products {
			if strings.EqualFold(p.PartNumber, query) {
				continue // already added as the exact match
			}
			if strings.Contains(strings.ToLower(p.Name), lower) ||
				strings.Contains(strings.ToLower(p.PartNumber), lower) ||
				strings.Contains(strings.ToLower(p.Description), lower) {
				results = append(results, p)
			}
		}
	}

	if category == "" {
		return results
	}
	filtered := results[:0]
	for _, p := range results {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// GuideFor returns the installation guide for a part number, if one exists.
func (s *CatalogStore) GuideFor(partNumber string) (models.InstallationGuide, bool) {
	guide, ok := s.installGuides[strings.ToUpper(partNumber)]
	return guide, ok
}

// TroubleshootingFor maps a free-text issue description to a troubleshooting
// guide by keyword: "ice maker" selects the ice maker guide, "dishwasher"
// together with "drain" selects the drainage guide.
func (s *CatalogStore) TroubleshootingFor(issue string) (models.TroubleshootingGuide, bool) {
	lower := strings.ToLower(issue)
	switch {
	case strings.Contains(lower, "ice maker"):
		guide, ok := s.troubleGuides["ice maker not working"]
		return guide, ok
	case strings.Contains(lower, "dishwasher") && strings.Contains(lower, "drain"):
		guide, ok := s.troubleGuides["dishwasher not draining"]
		return guide, ok
	}
	return models.TroubleshootingGuide{}, false
}
