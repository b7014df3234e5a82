package enrich

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Industry labels with special meaning to the classifier and scorer.
const (
	IndustryOther   = "Other"
	IndustryUnknown = "Unknown"
)

// IndustryRule maps an industry label to its trigger keywords. Rules are
// evaluated in order; the first label with any keyword match wins.
type IndustryRule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// DefaultIndustryTable returns the built-in ordered keyword table.
func DefaultIndustryTable() []IndustryRule {
	return []IndustryRule{
		{Label: "Technology", Keywords: []string{"software", "saas", "tech", "digital", "app", "it services"}},
		{Label: "Healthcare", Keywords: []string{"health", "medical", "clinic", "dental", "pharmacy"}},
		{Label: "Finance", Keywords: []string{"finance", "bank", "accounting", "insurance"}},
		{Label: "Real Estate", Keywords: []string{"real estate", "property", "realtor"}},
		{Label: "Retail", Keywords: []string{"retail", "shop", "store", "ecommerce"}},
		{Label: "Restaurant", Keywords: []string{"restaurant", "cafe", "food", "dining"}},
		{Label: "Legal", Keywords: []string{"law", "legal", "attorney", "lawyer"}},
		{Label: "Education", Keywords: []string{"education", "school", "training"}},
		{Label: "Construction", Keywords: []string{"construction", "builder", "contractor"}},
		{Label: "Marketing", Keywords: []string{"marketing", "advertising", "agency", "branding"}},
	}
}

// LoadIndustryTable reads an ordered rule list from a YAML file.
func LoadIndustryTable(path string) ([]IndustryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "industry: read table %s", path)
	}
	var rules []IndustryRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrapf(err, "industry: parse table %s", path)
	}
	if len(rules) == 0 {
		return nil, eris.Errorf("industry: table %s is empty", path)
	}
	return rules, nil
}

// ClassifyIndustry matches page text plus meta description against the rule
// table. Returns "Other" when nothing matches. Callers map hard extraction
// failures to "Unknown".
func ClassifyIndustry(p *Page, rules []IndustryRule) (string, error) {
	if p == nil || p.Doc == nil {
		return IndustryUnknown, eris.New("industry: no page")
	}
	text := strings.ToLower(p.Text + " " + p.Meta)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.Label, nil
			}
		}
	}
	return IndustryOther, nil
}
