// Launch vehicle catalog loaded from built-ins or YAML
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRocket is returned when a rocket id is not in the catalog.
var ErrUnknownRocket = errors.New("unknown rocket")

// Color is a normalized RGB triple used by renderers.
type Color struct {
	R float64 `yaml:"r" json:"r"`
	G float64 `yaml:"g" json:"g"`
	B float64 `yaml:"b" json:"b"`
}

// RocketModel is the static specification of a launch vehicle.
type RocketModel struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Type            string  `yaml:"type" json:"type"`
	Height          float64 `yaml:"height" json:"height"`
	Diameter        float64 `yaml:"diameter" json:"diameter"`
	Mass            float64 `yaml:"mass" json:"mass"`
	Payload         float64 `yaml:"payload" json:"payload"`
	ThrustRating    float64 `yaml:"thrust_rating" json:"thrustRating"` // kN
	SpecificImpulse float64 `yaml:"specific_impulse" json:"specificImpulse"`
	FuelCapacity    float64 `yaml:"fuel_capacity" json:"fuelCapacity"`
	Color           Color   `yaml:"color" json:"color"`
	Geometry        string  `yaml:"geometry" json:"geometry"`
	Description     string  `yaml:"description" json:"description"`
}

// Catalog is an immutable, id-indexed set of rocket models.
type Catalog struct {
	models []RocketModel
	byID   map[string]int
}

type file struct {
	Rockets []RocketModel `yaml:"rockets"`
}

// New validates models and builds a catalog. Order is preserved.
func New(models []RocketModel) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(models))}
	for _, m := range models {
		if m.ID == "" {
			return nil, fmt.Errorf("rocket %q: missing id", m.Name)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("rocket %s: duplicate id", m.ID)
		}
		if m.Mass <= 0 || m.ThrustRating <= 0 {
			return nil, fmt.Errorf("rocket %s: mass and thrust_rating must be positive", m.ID)
		}
		c.byID[m.ID] = len(c.models)
		c.models = append(c.models, m)
	}
	return c, nil
}

// Default returns a catalog of the built-in vehicles.
func Default() *Catalog {
	c, err := New(BuiltIn())
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML catalog. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Rockets)
}

// ByID looks up a rocket.
func (c *Catalog) ByID(id string) (RocketModel, error) {
	i, ok := c.byID[id]
	if !ok {
		return RocketModel{}, fmt.Errorf("%w: %s", ErrUnknownRocket, id)
	}
	return c.models[i], nil
}

// All returns a copy of every model in catalog order.
func (c *Catalog) All() []RocketModel {
	out := make([]RocketModel, len(c.models))
	copy(out, c.models)
	return out
}

// IDs returns the sorted rocket ids.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
