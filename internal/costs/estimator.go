// Package costs estimates price ranges for selected dental services from a
// static table.
package costs

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Price is a typical range in whole US dollars.
type Price struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Low   int    `yaml:"low" json:"low"`
	High  int    `yaml:"high" json:"high"`
	Note  string `yaml:"note" json:"note"`
}

// Estimate is one result row of the cost calculator.
type Estimate struct {
	Service  string `json:"service"`
	Label    string `json:"label"`
	Low      int    `json:"low"`
	High     int    `json:"high"`
	Range    string `json:"range"`
	Note     string `json:"note"`
	Fallback bool   `json:"fallback"`
}

type table struct {
	Default  Price    `yaml:"default"`
	Services []Price  `yaml:"services"`
	Offered  []string `yaml:"offered"`
}

// Estimator maps service selections to estimates. It is pure and safe for
// concurrent use.
type Estimator struct {
	fallback Price
	prices   map[string]Price
	offered  []string
}

// LoadDefault reads the embedded price table.
func LoadDefault() (*Estimator, error) {
	return LoadFS(dataFS, "data/prices.yaml")
}

// LoadFS reads a price table from fsys.
func LoadFS(fsys fs.FS, path string) (*Estimator, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("costs: read %s: %w", path, err)
	}
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("costs: parse %s: %w", path, err)
	}
	if t.Default.High < t.Default.Low || t.Default.High == 0 {
		return nil, fmt.Errorf("costs: %s has no usable default range", path)
	}
	e := &Estimator{
		fallback: t.Default,
		prices:   make(map[string]Price, len(t.Services)),
		offered:  t.Offered,
	}
	for _, p := range t.Services {
		id := normalizeID(p.ID)
		if id == "" {
			return nil, fmt.Errorf("costs: %s has a price row without id", path)
		}
		p.ID = id
		e.prices[id] = p
	}
	return e, nil
}

// Offered lists the selectable services with their display labels.
func (e *Estimator) Offered() []Price {
	out := make([]Price, 0, len(e.offered))
	for _, id := range e.offered {
		id = normalizeID(id)
		p, ok := e.prices[id]
		if !ok {
			p = Price{ID: id, Label: labelFromID(id)}
		}
		out = append(out, Price{ID: id, Label: p.Label})
	}
	return out
}

// IsOffered reports whether id is a selectable service.
func (e *Estimator) IsOffered(id string) bool {
	id = normalizeID(id)
	for _, o := range e.offered {
		if normalizeID(o) == id {
			return true
		}
	}
	return false
}

// Estimate returns one row per distinct selected service, in selection order.
// Services without a table entry get the default range and note.
func (e *Estimator) Estimate(selected []string) []Estimate {
	seen := make(map[string]struct{}, len(selected))
	out := make([]Estimate, 0, len(selected))
	for _, raw := range selected {
		id := normalizeID(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		p, ok := e.prices[id]
		if !ok {
			p = Price{ID: id, Label: labelFromID(id), Low: e.fallback.Low, High: e.fallback.High, Note: e.fallback.Note}
		}
		out = append(out, Estimate{
			Service:  id,
			Label:    p.Label,
			Low:      p.Low,
			High:     p.High,
			Range:    FormatRange(p.Low, p.High),
			Note:     p.Note,
			Fallback: !ok,
		})
	}
	return out
}

// FormatRange renders "$1,200 - $1,700".
func FormatRange(low, high int) string {
	return "$" + groupThousands(low) + " - $" + groupThousands(high)
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// labelFromID turns "emergency-visit" into "Emergency Visit".
func labelFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " ")
}
