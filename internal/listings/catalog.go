package listings

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type catalogDocument struct {
	Listings []Listing `yaml:"listings"`
}

// Catalog is the fixed sample directory.
type Catalog struct {
	listings []Listing
	byID     map[string]int
}

// LoadDefault loads the embedded sample catalog.
func LoadDefault() (*Catalog, error) {
	return LoadFS(dataFS, "data/listings.yaml")
}

// LoadFS parses a YAML catalog from fsys.
func LoadFS(fsys fs.FS, path string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("listings: read %s: %w", path, err)
	}
	var doc catalogDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("listings: parse %s: %w", path, err)
	}
	return NewCatalog(doc.Listings)
}

// NewCatalog builds a catalog, rejecting blank or duplicate ids.
func NewCatalog(items []Listing) (*Catalog, error) {
	c := &Catalog{
		listings: make([]Listing, 0, len(items)),
		byID:     make(map[string]int, len(items)),
	}
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("listings: listing %q has no id", item.Name)
		}
		if _, exists := c.byID[id]; exists {
			return nil, fmt.Errorf("listings: duplicate id %q", id)
		}
		item.ID = id
		c.byID[id] = len(c.listings)
		c.listings = append(c.listings, item)
	}
	return c, nil
}

// All returns the listings in catalog order.
func (c *Catalog) All() []Listing {
	return slices.Clone(c.listings)
}

// Get returns one listing by id.
func (c *Catalog) Get(id string) (Listing, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Listing{}, ErrListingNotFound
	}
	return c.listings[idx], nil
}

// Search returns the sample list with network members first. Criteria are not
// resolved against the data; the result set is always the full catalog.
func (c *Catalog) Search() []Listing {
	return SortNetworkFirst(c.listings)
}

// SortNetworkFirst returns a copy with every network member ahead of every
// non-member, keeping the original relative order inside each group.
func SortNetworkFirst(in []Listing) []Listing {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b Listing) int {
		switch {
		case a.NetworkMember == b.NetworkMember:
			return 0
		case a.NetworkMember:
			return -1
		default:
			return 1
		}
	})
	return out
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
