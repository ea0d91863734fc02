// Package catalog holds the static skill, action-verb and industry-keyword
// lists used to score resumes. A Catalog is built once at startup and is
// read-only afterwards, so it can be shared freely between goroutines.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"careernav/internal/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Category is a named group of skills, kept in catalog order
type Category struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

type document struct {
	Categories       []Category `yaml:"categories"`
	ActionVerbs      []string   `yaml:"actionVerbs"`
	IndustryKeywords []string   `yaml:"industryKeywords"`
}

// Catalog is an immutable view over a validated catalog document
type Catalog struct {
	categories []Category
	allSkills  []string
	categoryOf map[string]string
	verbs      []string
	keywords   []string
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(defaultCatalog)
	})
	return defaultCat, defaultErr
}

// MustDefault is Default for callers that cannot continue without a catalog.
func MustDefault() *Catalog {
	cat, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded skill catalog is invalid: %v", err))
	}
	return cat
}

// LoadFile reads and validates a catalog document from disk. An empty path
// returns the embedded catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("Catalog file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read catalog file: %s", path), err)
	}

	cat, err := Load(data)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithContext("catalog_file", path)
		}
		return nil, err
	}
	return cat, nil
}

// Load validates data against the catalog schema and builds a Catalog.
func Load(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeCatalogInvalid, "Catalog is not valid YAML", err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeCatalogInvalid, "Catalog does not match schema", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeCatalogInvalid, "Catalog could not be decoded", err)
	}

	return build(doc)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(doc.Categories)),
		categoryOf: make(map[string]string),
		verbs:      slices.Clone(doc.ActionVerbs),
		keywords:   slices.Clone(doc.IndustryKeywords),
	}

	seenCategories := make(map[string]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		if seenCategories[cat.Name] {
			return nil, errors.NewConfigError(errors.ErrCodeCatalogInvalid,
				fmt.Sprintf("Duplicate catalog category: %s", cat.Name), nil)
		}
		seenCategories[cat.Name] = true

		skills := make([]string, 0, len(cat.Skills))
		for _, skill := range cat.Skills {
			skill = strings.ToLower(strings.TrimSpace(skill))
			skills = append(skills, skill)
			// First category wins when a skill is listed twice.
			if _, exists := c.categoryOf[skill]; !exists {
				c.categoryOf[skill] = cat.Name
				c.allSkills = append(c.allSkills, skill)
			}
		}
		c.categories = append(c.categories, Category{Name: cat.Name, Skills: skills})
	}

	return c, nil
}

// Categories returns every category in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Skills: slices.Clone(cat.Skills)}
	}
	return out
}

// CategoryNames returns the category names in catalog order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// AllSkills returns every distinct skill in discovery order.
func (c *Catalog) AllSkills() []string {
	return slices.Clone(c.allSkills)
}

// CategoryOf returns the first category listing skill.
func (c *Catalog) CategoryOf(skill string) (string, bool) {
	name, ok := c.categoryOf[strings.ToLower(skill)]
	return name, ok
}

// Contains reports whether skill is a catalog skill.
func (c *Catalog) Contains(skill string) bool {
	_, ok := c.categoryOf[strings.ToLower(skill)]
	return ok
}

func (c *Catalog) ActionVerbs() []string {
	return slices.Clone(c.verbs)
}

func (c *Catalog) IndustryKeywords() []string {
	return slices.Clone(c.keywords)
}
