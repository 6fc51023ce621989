package services

import (
	"context"
	"fmt"
	"strings"

	"partschat/models"
)

// ResponseComposer is the top-level entry point for chat queries. It runs the
// query extractor, answers compatibility questions deterministically when both
// identifiers are known, and delegates everything else to the LLM gateway with
// whatever catalog context the extraction surfaced.
type ResponseComposer struct {
	catalog   *CatalogStore
	extractor *QueryExtractor
	gateway   *LLMGateway
}

func NewResponseComposer(catalog *CatalogStore, extractor *QueryExtractor, gateway *LLMGateway) *ResponseComposer {
	return &ResponseComposer{catalog: catalog, extractor: extractor, gateway: gateway}
}

// LLMEnabled reports whether replies can come from the upstream provider.
func (c *ResponseComposer) LLMEnabled() bool {
	return c.gateway.Enabled()
}

// Compose shapes the structured reply for one user query. Conversation
// context is passed explicitly per call; the composer holds no per-request
// state and never mutates the catalog.
func (c *ResponseComposer) Compose(ctx context.Context, query string, convCtx models.ConversationContext) models.ChatReply {
	ext := c.extractor.Extract(query, convCtx)
	lower := strings.ToLower(query)

	compatIntent := strings.Contains(lower, "compatible") || strings.Contains(lower, "compatibility")
	if compatIntent && ext.PartNumber != "" && ext.ModelNumber != "" {
		return c.compatibilityReply(ctx, query, ext)
	}

	answer := c.gateway.Answer(ctx, query, c.contextText(ext))

	// Surface a product card when the query explicitly asks about a part the
	// catalog knows.
	if strings.Contains(lower, "part number") || strings.Contains(lower, "search for") {
		if product, ok := c.catalog.ProductByPart(ext.PartNumber); ok {
			return models.ChatReply{
				Role:    "assistant",
				Content: answer.Content,
				Type:    models.ReplyTypeProduct,
				Data:    product,
			}
		}
	}

	return models.ChatReply{Role: "assistant", Content: answer.Content}
}

// compatibilityReply answers a fully-identified compatibility question. The
// verdict comes from the catalog alone; the LLM is asked only to explain it,
// and its text is appended after the authoritative verdict line.
func (c *ResponseComposer) compatibilityReply(ctx context.Context, query string, ext Extraction) models.ChatReply {
	compatible, bundle := c.catalog.CheckCompatibility(ext.PartNumber, ext.ModelNumber)

	var verdict string
	if compatible {
		verdict = fmt.Sprintf("Part %s is compatible with model %s.", ext.PartNumber, ext.ModelNumber)
	} else {
		verdict = fmt.Sprintf("Part %s is NOT compatible with model %s.", ext.PartNumber, ext.ModelNumber)
	}

	content := verdict
	if explanation := c.gateway.Explain(ctx, query, verdict); explanation != "" {
		content += "\n\n" + explanation
	}

	reply := models.ChatReply{
		Role:    "assistant",
		Content: content,
		Type:    models.ReplyTypeCompatibility,
	}
	if bundle != nil {
		reply.Data = bundle
	}
	return reply
}

// contextText renders the catalog records the extraction resolved, mirroring
// what the LLM needs to answer product and compatibility questions in prose.
func (c *ResponseComposer) contextText(ext Extraction) string {
	var b strings.Builder

	if product, ok := c.catalog.ProductByPart(ext.PartNumber); ok {
		fmt.Fprintf(&b, "\nProduct Information:\n- Name: %s\n- Part Number: %s\n- Price: $%.2f\n- Category: %s\n- Description: %s\n- Installation: %s\n- Compatible Models: %s",
			product.Name, product.PartNumber, product.Price, product.Category,
			product.Description, product.Installation, strings.Join(product.Compatibility, ", "))
	}

	if entry, ok := c.catalog.CompatibilityFor(ext.ModelNumber); ok {
		fmt.Fprintf(&b, "\nCompatibility Information for Model %s:\n- Refrigerator Parts: %s\n- Dishwasher Parts: %s",
			entry.ModelNumber, strings.Join(entry.Refrigerator, ", "), strings.Join(entry.Dishwasher, ", "))
	}

	return b.String()
}
