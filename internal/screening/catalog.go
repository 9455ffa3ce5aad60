package screening

import "slices"

// Catalog holds every literal term list the extractors match against.
// Analyzers receive a Catalog instead of reading package globals so that a
// deployment (or a test) can swap the lists per domain.
type Catalog struct {
	Skills                []string `mapstructure:"skills" json:"skills"`
	Tier1Companies        []string `mapstructure:"tier1-companies" json:"tier1Companies"`
	Tier3Keywords         []string `mapstructure:"tier3-keywords" json:"tier3Keywords"`
	CorporateSuffixes     []string `mapstructure:"corporate-suffixes" json:"corporateSuffixes"`
	Degrees               []string `mapstructure:"degrees" json:"degrees"`
	CertificationKeywords []string `mapstructure:"certification-keywords" json:"certificationKeywords"`
}

var (
	defaultSkills = []string{
		"JavaScript", "TypeScript", "Python", "Java", "C++", "Go", "Rust", "Ruby",
		"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "Spring",
		"SQL", "PostgreSQL", "MongoDB", "Redis", "MySQL", "GraphQL", "REST API",
		"AWS", "Azure", "GCP", "Docker", "Kubernetes", "CI/CD", "Git", "Linux",
		"Machine Learning", "AI", "Deep Learning", "TensorFlow", "PyTorch",
		"Agile", "Scrum", "Leadership", "Project Management", "Team Management",
	}

	defaultTier1Companies = []string{
		"google", "microsoft", "amazon", "apple", "meta", "facebook", "netflix", "tesla",
		"uber", "airbnb", "stripe", "shopify", "spotify", "linkedin", "twitter", "dropbox",
		"salesforce", "oracle", "ibm", "adobe", "nvidia", "intel", "cisco",
	}

	// Names containing these keywords are classified as Tier 3 even though
	// the list historically carried a "tier 2" label.
	defaultTier3Keywords = []string{
		"startup", "medium", "agency", "consulting", "software", "tech", "digital",
	}

	defaultCorporateSuffixes = []string{"inc", "ltd", "corp"}

	defaultDegrees = []string{
		"PhD", "Ph.D", "Master", "Bachelor", "MBA", "B.Tech", "M.Tech", "BS", "MS", "BE", "ME",
	}

	defaultCertificationKeywords = []string{
		"certified", "certification", "certificate", "aws", "azure", "gcp", "pmp", "scrum",
	}
)

// DefaultCatalog returns a copy of the stock term lists.
func DefaultCatalog() Catalog {
	return Catalog{
		Skills:                slices.Clone(defaultSkills),
		Tier1Companies:        slices.Clone(defaultTier1Companies),
		Tier3Keywords:         slices.Clone(defaultTier3Keywords),
		CorporateSuffixes:     slices.Clone(defaultCorporateSuffixes),
		Degrees:               slices.Clone(defaultDegrees),
		CertificationKeywords: slices.Clone(defaultCertificationKeywords),
	}
}

// Merge returns a catalog where every non-empty list of override replaces
// the corresponding list of c.
func (c Catalog) Merge(override Catalog) Catalog {
	merged := c
	if len(override.Skills) > 0 {
		merged.Skills = slices.Clone(override.Skills)
	}
	if len(override.Tier1Companies) > 0 {
		merged.Tier1Companies = slices.Clone(override.Tier1Companies)
	}
	if len(override.Tier3Keywords) > 0 {
		merged.Tier3Keywords = slices.Clone(override.Tier3Keywords)
	}
	if len(override.CorporateSuffixes) > 0 {
		merged.CorporateSuffixes = slices.Clone(override.CorporateSuffixes)
	}
	if len(override.Degrees) > 0 {
		merged.Degrees = slices.Clone(override.Degrees)
	}
	if len(override.CertificationKeywords) > 0 {
		merged.CertificationKeywords = slices.Clone(override.CertificationKeywords)
	}
	return merged
}
