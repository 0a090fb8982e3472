// server/content/catalog.go
package content

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/vinizap/portfolio/server/domain"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Category string

const (
	CategoryPortfolio    Category = "portfolio"
	CategoryScripts      Category = "scripts"
	CategoryShortFilms   Category = "short-films"
	CategoryPartnerships Category = "content-branding"
)

// Body is a pre-encoded JSON response and its ETag.
type Body struct {
	JSON []byte
	ETag string
}

type document struct {
	Portfolio     domain.Portfolio     `yaml:"portfolio"`
	FallbackPosts []domain.Post        `yaml:"fallback_posts"`
	Scripts       []domain.Script      `yaml:"scripts"`
	ShortFilms    []domain.ShortFilm   `yaml:"short_films"`
	Partnerships  []domain.Partnership `yaml:"partnerships"`
}

// Catalog is the compiled-in content. It is built once at startup and never
// modified afterwards; accessors hand out copies.
type Catalog struct {
	doc      document
	sections map[domain.SectionID]domain.Section
	bodies   map[Category]Body
}

// Load decodes the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	if doc.Scripts == nil {
		doc.Scripts = []domain.Script{}
	}
	if doc.ShortFilms == nil {
		doc.ShortFilms = []domain.ShortFilm{}
	}
	if doc.Partnerships == nil {
		doc.Partnerships = []domain.Partnership{}
	}

	c := &Catalog{
		doc:      doc,
		sections: make(map[domain.SectionID]domain.Section, len(doc.Portfolio.Sections)),
		bodies:   make(map[Category]Body, 4),
	}

	for _, s := range doc.Portfolio.Sections {
		if !s.ID.Valid() {
			return nil, fmt.Errorf("unknown portfolio section %q", s.ID)
		}
		if _, dup := c.sections[s.ID]; dup {
			return nil, fmt.Errorf("duplicate portfolio section %q", s.ID)
		}
		c.sections[s.ID] = s
	}

	values := map[Category]any{
		CategoryPortfolio:    doc.Portfolio,
		CategoryScripts:      doc.Scripts,
		CategoryShortFilms:   doc.ShortFilms,
		CategoryPartnerships: doc.Partnerships,
	}
	for cat, v := range values {
		body, err := encode(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", cat, err)
		}
		c.bodies[cat] = body
	}

	return c, nil
}

func encode(v any) (Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Body{}, err
	}
	sum := blake2b.Sum256(data)
	return Body{
		JSON: data,
		ETag: `"` + hex.EncodeToString(sum[:16]) + `"`,
	}, nil
}

// Body returns the encoded response for a static category.
func (c *Catalog) Body(cat Category) (Body, bool) {
	b, ok := c.bodies[cat]
	if !ok {
		return Body{}, false
	}
	return Body{JSON: bytes.Clone(b.JSON), ETag: b.ETag}, true
}

// Section looks up one home page section by its identifier.
func (c *Catalog) Section(id domain.SectionID) (domain.Section, bool) {
	s, ok := c.sections[id]
	return s, ok
}

// FallbackPosts returns the posts served when the Content Store cannot be read.
func (c *Catalog) FallbackPosts() []domain.Post {
	return append([]domain.Post(nil), c.doc.FallbackPosts...)
}
