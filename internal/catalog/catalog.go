package catalog

import (
	"fmt"
	"strings"
)

// Domain is one of the statistics sections published upstream.
type Domain string

const (
	Production        Domain = "production"
	Processing        Domain = "processing"
	Commercialization Domain = "commercialization"
	Import            Domain = "import"
	Export            Domain = "export"
)

// Domains lists every domain in menu order.
var Domains = []Domain{Production, Processing, Commercialization, Import, Export}

// Category is a sub-classification of a domain mapped to an upstream query value.
type Category struct {
	Key         string
	Code        string // upstream "subopcao" value
	DisplayName string
}

type domainInfo struct {
	option     string // upstream "opcao" value
	flat       bool
	titled     bool
	rowsLabel  string
	childLabel string
	categories []Category
}

var domains = map[Domain]domainInfo{
	Production: {
		option:     "opt_02",
		rowsLabel:  "products",
		childLabel: "subcategories",
	},
	Processing: {
		option:     "opt_03",
		titled:     true,
		rowsLabel:  "varieties",
		childLabel: "subvarieties",
		categories: []Category{
			{Key: "viniferas", Code: "subopt_01", DisplayName: "Viníferas"},
			{Key: "american_hybrids", Code: "subopt_02", DisplayName: "Americanas e híbridas"},
			{Key: "table_grapes", Code: "subopt_03", DisplayName: "Uvas de mesa"},
			{Key: "unclassified", Code: "subopt_04", DisplayName: "Sem classificação"},
		},
	},
	Commercialization: {
		option:     "opt_04",
		titled:     true,
		rowsLabel:  "products",
		childLabel: "subcategories",
	},
	Import: {
		option:    "opt_05",
		flat:      true,
		titled:    true,
		rowsLabel: "countries",
		categories: []Category{
			{Key: "table_wines", Code: "subopt_01", DisplayName: "Vinhos de Mesa"},
			{Key: "sparkling_wines", Code: "subopt_02", DisplayName: "Espumantes"},
			{Key: "fresh_grapes", Code: "subopt_03", DisplayName: "Uvas Frescas"},
			{Key: "raisins", Code: "subopt_04", DisplayName: "Uvas Passas"},
			{Key: "grape_juice", Code: "subopt_05", DisplayName: "Suco de Uva"},
		},
	},
	Export: {
		option:    "opt_06",
		flat:      true,
		titled:    true,
		rowsLabel: "countries",
		categories: []Category{
			{Key: "table_wines", Code: "subopt_01", DisplayName: "Vinhos de Mesa"},
			{Key: "sparkling_wines", Code: "subopt_02", DisplayName: "Espumantes"},
			{Key: "fresh_grapes", Code: "subopt_03", DisplayName: "Uvas Frescas"},
			{Key: "grape_juice", Code: "subopt_04", DisplayName: "Suco de Uva"},
		},
	},
}

// ParseDomain resolves a domain name.
func ParseDomain(name string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := domains[d]; !ok {
		return "", fmt.Errorf("unknown domain %q", name)
	}
	return d, nil
}

// Option returns the upstream "opcao" value for the domain.
func (d Domain) Option() string {
	return domains[d].option
}

// Flat reports whether the domain publishes flat country tables.
func (d Domain) Flat() bool {
	return domains[d].flat
}

// Titled reports whether results of the domain carry the page title.
func (d Domain) Titled() bool {
	return domains[d].titled
}

// HasCategories reports whether the domain is split into categories.
func (d Domain) HasCategories() bool {
	return len(domains[d].categories) > 0
}

// Labels returns the JSON field names for rows and nested rows.
func (d Domain) Labels() (rows, children string) {
	info := domains[d]
	return info.rowsLabel, info.childLabel
}

// Categories returns the domain's categories in declared order.
func Categories(d Domain) []Category {
	cats := domains[d].categories
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// Keys returns the category keys of the domain in declared order.
func Keys(d Domain) []string {
	cats := domains[d].categories
	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = c.Key
	}
	return keys
}

// Lookup validates key against the domain's categories.
func Lookup(d Domain, key string) (Category, error) {
	for _, c := range domains[d].categories {
		if c.Key == key {
			return c, nil
		}
	}
	return Category{}, &InvalidCategoryError{Domain: d, Key: key, Valid: Keys(d)}
}

// InvalidCategoryError reports a category key outside the domain's enumeration.
type InvalidCategoryError struct {
	Domain Domain
	Key    string
	Valid  []string
}

func (e *InvalidCategoryError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("%s has no categories (got %q)", e.Domain, e.Key)
	}
	return fmt.Sprintf("invalid %s category %q: valid options are %s",
		e.Domain, e.Key, strings.Join(e.Valid, ", "))
}
