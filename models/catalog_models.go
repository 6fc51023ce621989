package models

// Product represents a single replaceable appliance part. Products are loaded
// once at startup from the catalog file and never mutated afterwards.
type Product struct {
	PartNumber         string   `json:"partNumber"`
	Name               string   `json:"name"`
	Category           string   `json:"category"` // "Refrigerator" or "Dishwasher"
	Price              float64  `json:"price"`
	StockQuantity      int      `json:"stockQuantity"`
	Compatibility      []string `json:"compatibility"` // appliance model numbers
	Installation       string   `json:"installation,omitempty"`
	Troubleshooting    string   `json:"troubleshooting,omitempty"`
	Description        string   `json:"description,omitempty"`
	Image              string   `json:"image,omitempty"`
	PartSelectURL      string   `json:"partSelectUrl,omitempty"`
	InstallationVideo  string   `json:"installationVideo,omitempty"`
	InstallationImages []string `json:"installationImages,omitempty"`
}

// CompatibilityEntry lists the part numbers known to fit one appliance model,
// grouped by appliance category. Entries keep their catalog declaration order
// so that model-number extraction ties break deterministically.
type CompatibilityEntry struct {
	ModelNumber  string   `json:"modelNumber"`
	Refrigerator []string `json:"refrigerator"`
	Dishwasher   []string `json:"dishwasher"`
}

// InstallationGuide holds step-by-step installation instructions for a part.
// Only a subset of products have one.
type InstallationGuide struct {
	Title      string   `json:"title"`
	Steps      []string `json:"steps"`
	Tools      []string `json:"tools"`
	Difficulty string   `json:"difficulty"`
	Time       string   `json:"time"`
}

// TroubleshootingGuide holds diagnosis steps for a free-text issue label.
type TroubleshootingGuide struct {
	Title        string   `json:"title"`
	Steps        []string `json:"steps"`
	CommonCauses []string `json:"commonCauses"`
}

// Catalog is the on-disk shape of the embedded catalog file.
type Catalog struct {
	Products              []Product                       `json:"products"`
	Compatibility         []CompatibilityEntry            `json:"compatibility"`
	InstallationGuides    map[string]InstallationGuide    `json:"installationGuides"`
	TroubleshootingGuides map[string]TroubleshootingGuide `json:"troubleshootingGuides"`
}
