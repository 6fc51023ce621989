package services

import (
	"fmt"
	"regexp"
	"strings"
)

// The fallback responder only understands explicit "part number PS123..." and
// "model ABC123" phrases, unlike the composer's broader extraction.
var (
	phrasePartPattern  = regexp.MustCompile(`(?i)part number (\w+)`)
	phraseModelPattern = regexp.MustCompile(`(?i)model (\w+)`)
)

// FallbackResponder produces canned, template-filled answers without calling
// any external service. It is used whenever the LLM gateway fails or no LLM is
// configured. Intent classification is ordered and first-match-wins: a query
// matching several intents is answered only for the first recognized one.
type FallbackResponder struct {
	catalog *CatalogStore
}

func NewFallbackResponder(catalog *CatalogStore) *FallbackResponder {
	return &FallbackResponder{catalog: catalog}
}

// Respond classifies the query by substring presence and renders the matching
// template: installation, compatibility, troubleshooting, product summary, and
// finally a fixed capability menu.
func (f *FallbackResponder) Respond(query string) string {
	lower := strings.ToLower(query)

	if strings.Contains(lower, "install") || strings.Contains(lower, "installation") {
		return f.installationAnswer(query)
	}

	if strings.Contains(lower, "compatible") || strings.Contains(lower, "compatibility") {
		return f.compatibilityAnswer(query)
	}

	if strings.Contains(lower, "not working") || strings.Contains(lower, "broken") || strings.Contains(lower, "fix") {
		return f.troubleshootingAnswer(lower)
	}

	if m := phrasePartPattern.FindStringSubmatch(query); m != nil {
		if product, ok := f.catalog.ProductByPart(m[1]); ok {
			return fmt.Sprintf("**%s**\n\n**Part Number:** %s\n**Price:** $%.2f\n**Stock:** %d available\n**Category:** %s\n\n**Description:** %s\n\n**Installation:** %s\n\n**Compatible models:** %s",
				product.Name, product.PartNumber, product.Price, product.StockQuantity, product.Category,
				product.Description, product.Installation, strings.Join(product.Compatibility, ", "))
		}
	}

	return "I'm your PartSelect assistant! I can help you with:\n\n" +
		"• **Product information** - Search for parts by part number\n" +
		"• **Compatibility checks** - Verify if parts work with your model\n" +
		"• **Installation guides** - Step-by-step installation instructions\n" +
		"• **Troubleshooting** - Help diagnose and fix appliance issues\n\n" +
		"What can I help you with today?"
}

func (f *FallbackResponder) installationAnswer(query string) string {
	if m := phrasePartPattern.FindStringSubmatch(query); m != nil {
		partNumber := strings.ToUpper(m[1])
		if guide, ok := f.catalog.GuideFor(partNumber); ok {
			steps := make([]string, len(guide.Steps))
			for i, step := range guide.Steps {
				steps[i] = fmt.Sprintf("%d. %s", i+1, step)
			}
			return fmt.Sprintf("Here's how to install part number %s:\n\n**%s**\n\n**Difficulty:** %s\n**Time:** %s\n\n**Steps:**\n%s\n\n**Tools needed:** %s",
				partNumber, guide.Title, guide.Difficulty, guide.Time,
				strings.Join(steps, "\n"), strings.Join(guide.Tools, ", "))
		}
	}
	return "I can help you with installation instructions. Please provide the part number you need help with."
}

func (f *FallbackResponder) compatibilityAnswer(query string) string {
	if m := phraseModelPattern.FindStringSubmatch(query); m != nil {
		modelNumber := strings.ToUpper(m[1])
		if entry, ok := f.catalog.CompatibilityFor(modelNumber); ok {
			return fmt.Sprintf("Yes, I can help with compatibility for model %s. Here are the compatible parts:\n\n**Refrigerator parts:** %s\n**Dishwasher parts:** %s\n\nWould you like specific information about any of these parts?",
				modelNumber, strings.Join(entry.Refrigerator, ", "), strings.Join(entry.Dishwasher, ", "))
		}
	}
	return "I can check part compatibility. Please provide your appliance model number."
}

func (f *FallbackResponder) troubleshootingAnswer(lower string) string {
	if strings.Contains(lower, "ice maker") {
		if guide, ok := f.catalog.TroubleshootingFor("ice maker"); ok {
			return renderTroubleshooting(guide.Title, guide.CommonCauses, guide.Steps,
				"If these steps don't resolve the issue, you may need to replace the ice maker assembly (Part #PS11752779).")
		}
	}
	if strings.Contains(lower, "dishwasher") && strings.Contains(lower, "drain") {
		if guide, ok := f.catalog.TroubleshootingFor("dishwasher drain"); ok {
			return renderTroubleshooting(guide.Title, guide.CommonCauses, guide.Steps,
				"If the pump is faulty, you may need to replace it (Part #PS11752781).")
		}
	}
	return "I can help with troubleshooting. Please describe the specific issue you're experiencing with your appliance."
}

func renderTroubleshooting(title string, causes, steps []string, closing string) string {
	bullets := make([]string, len(causes))
	for i, cause := range causes {
		bullets[i] = "• " + cause
	}
	numbered := make([]string, len(steps))
	for i, step := range steps {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	return fmt.Sprintf("**%s**\n\n**Common causes:**\n%s\n\n**Troubleshooting steps:**\n%s\n\n%s",
		title, strings.Join(bullets, "\n"), strings.Join(numbered, "\n"), closing)
}
