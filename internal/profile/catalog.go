package profile

import "fmt"

// Kind is the value shape a field accepts.
type Kind string

const (
	KindText    Kind = "text"
	KindEmail   Kind = "email"
	KindURL     Kind = "url"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBool    Kind = "bool"
	KindChoice  Kind = "choice"
)

// Numeric reports whether the kind holds numbers.
func (k Kind) Numeric() bool {
	return k == KindNumber || k == KindInteger
}

// Field declares one input within a section.
type Field struct {
	Key      string
	Label    string
	Kind     Kind
	Required bool
	// RequiredWhen is an expression over the section's field keys; when it
	// evaluates to true the field is required.
	RequiredWhen string
	Min          *float64
	Max          *float64
	MaxLength    int
	Options      []string
	Help         string
}

// Rule is a cross-field check. Expr must evaluate to true; otherwise Message
// is reported against Field.
type Rule struct {
	Field   string
	Expr    string
	Message string
}

// SectionSpec describes one section and the order of its fields.
type SectionSpec struct {
	ID          SectionID
	Title       string
	Description string
	Fields      []Field
	Rules       []Rule
}

// Field looks up a field by key.
func (s SectionSpec) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Catalog is the fixed, ordered list of sections known at startup.
type Catalog struct {
	sections []SectionSpec
	index    map[SectionID]int
}

// NewCatalog builds a catalog, rejecting duplicate section IDs and field keys.
func NewCatalog(specs ...SectionSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("profile: at least one section is required")
	}
	c := &Catalog{index: make(map[SectionID]int, len(specs))}
	for i, s := range specs {
		if s.ID == "" {
			return nil, fmt.Errorf("profile: section %d: id is required", i+1)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("profile: duplicate section %q", s.ID)
		}
		seen := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			if f.Key == "" {
				return nil, fmt.Errorf("profile: section %q: field key is required", s.ID)
			}
			if seen[f.Key] {
				return nil, fmt.Errorf("profile: section %q: duplicate field %q", s.ID, f.Key)
			}
			seen[f.Key] = true
			if f.Kind == KindChoice && len(f.Options) == 0 {
				return nil, fmt.Errorf("profile: section %q: choice field %q has no options", s.ID, f.Key)
			}
		}
		for _, r := range s.Rules {
			if !seen[r.Field] {
				return nil, fmt.Errorf("profile: section %q: rule targets unknown field %q", s.ID, r.Field)
			}
		}
		c.index[s.ID] = i
		c.sections = append(c.sections, s)
	}
	return c, nil
}

// Sections returns every section in display order.
func (c *Catalog) Sections() []SectionSpec {
	return c.sections
}

// Section looks up a section by ID.
func (c *Catalog) Section(id SectionID) (SectionSpec, bool) {
	i, ok := c.index[id]
	if !ok {
		return SectionSpec{}, false
	}
	return c.sections[i], true
}

// Defaults returns the default profile shape: every section present, every
// field set to its zero value.
func (c *Catalog) Defaults() Profile {
	p := make(Profile, len(c.sections))
	for _, s := range c.sections {
		sec := make(Section, len(s.Fields))
		for _, f := range s.Fields {
			sec[f.Key] = f.Kind.zero()
		}
		p[s.ID] = sec
	}
	return p
}

func (k Kind) zero() any {
	switch k {
	case KindBool:
		return false
	case KindNumber, KindInteger:
		return nil
	default:
		return ""
	}
}

func bound(v float64) *float64 { return &v }

// Default returns the company-profile catalog.
func Default() *Catalog {
	c, err := NewCatalog(defaultSections...)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultSections = []SectionSpec{
	{
		ID:          CompanyDetails,
		Title:       "Company Details",
		Description: "Basic company identity and contact information",
		Fields: []Field{
			{Key: "companyName", Label: "Company Name", Kind: KindText, Required: true, MaxLength: 200},
			{Key: "address", Label: "Address", Kind: KindText, Required: true, MaxLength: 500},
			{Key: "industry", Label: "Industry", Kind: KindText, Required: true, MaxLength: 100},
			{Key: "contactEmail", Label: "Contact Email", Kind: KindEmail, Required: true},
			{Key: "website", Label: "Website", Kind: KindURL, Help: "Full URL, e.g. https://example.com"},
		},
	},
	{
		ID:          Capabilities,
		Title:       "Capabilities",
		Description: "What the company delivers and who delivers it",
		Fields: []Field{
			{Key: "servicesOffered", Label: "Services Offered", Kind: KindText, Required: true, MaxLength: 2000},
			{Key: "keyStrengths", Label: "Key Strengths", Kind: KindText, MaxLength: 2000},
			{Key: "certifications", Label: "Certifications", Kind: KindText, MaxLength: 1000},
			{Key: "employeeCount", Label: "Employee Count", Kind: KindInteger, Required: true, Min: bound(1)},
		},
	},
	{
		ID:          FinancialInfo,
		Title:       "Financial Information",
		Description: "Revenue, funding and supporting statements",
		Fields: []Field{
			{Key: "annualRevenue", Label: "Annual Revenue", Kind: KindNumber, Required: true, Min: bound(0)},
			{Key: "revenueCurrency", Label: "Revenue Currency", Kind: KindChoice, Required: true,
				Options: []string{"USD", "EUR", "GBP", "INR", "OTHER"}},
			{Key: "profitable", Label: "Profitable", Kind: KindBool},
			{Key: "fundingStage", Label: "Funding Stage", Kind: KindChoice,
				Options: []string{"bootstrapped", "seed", "series-a", "series-b-plus", "public"}},
			{Key: "financialStatementsFile", Label: "Financial Statements File", Kind: KindText, MaxLength: 255,
				Help: "File name only; contents are not uploaded"},
		},
	},
	{
		ID:          TenderExperience,
		Title:       "Tender Experience",
		Description: "Track record with public and private tenders",
		Fields: []Field{
			{Key: "hasTenderExperience", Label: "Has Tender Experience", Kind: KindBool},
			{Key: "tendersSubmitted", Label: "Tenders Submitted", Kind: KindInteger, Min: bound(0),
				RequiredWhen: "hasTenderExperience == true"},
			{Key: "tendersWon", Label: "Tenders Won", Kind: KindInteger, Min: bound(0)},
			{Key: "notableContracts", Label: "Notable Contracts", Kind: KindText, MaxLength: 2000},
		},
		Rules: []Rule{
			{
				Field:   "tendersWon",
				Expr:    "tendersWon == nil || tendersSubmitted == nil || tendersWon <= tendersSubmitted",
				Message: "Tenders Won cannot exceed Tenders Submitted",
			},
		},
	},
	{
		ID:          GeographicReach,
		Title:       "Geographic Reach",
		Description: "Where the company is based and where it operates",
		Fields: []Field{
			{Key: "headquartersCountry", Label: "Headquarters Country", Kind: KindText, Required: true, MaxLength: 100},
			{Key: "operatingRegions", Label: "Operating Regions", Kind: KindText, Required: true, MaxLength: 1000,
				Help: "Comma-separated list"},
			{Key: "servesInternationalClients", Label: "Serves International Clients", Kind: KindBool},
			{Key: "remoteDelivery", Label: "Remote Delivery", Kind: KindBool},
		},
	},
	{
		ID:          DigitalReadiness,
		Title:       "Digital Readiness",
		Description: "Tooling, cloud adoption and security posture",
		Fields: []Field{
			{Key: "digitalMaturity", Label: "Digital Maturity", Kind: KindChoice, Required: true,
				Options: []string{"basic", "intermediate", "advanced"}},
			{Key: "usesCloudServices", Label: "Uses Cloud Services", Kind: KindBool},
			{Key: "hasCybersecurityPolicy", Label: "Has Cybersecurity Policy", Kind: KindBool},
			{Key: "itStaffCount", Label: "IT Staff Count", Kind: KindInteger, Min: bound(0)},
			{Key: "keySystems", Label: "Key Systems", Kind: KindText, MaxLength: 1000},
		},
	},
}
