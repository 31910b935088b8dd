package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog configuration problems. Both are fatal:
// they are surfaced once at load time and abort startup of the subsystem.
var (
	ErrNoFinale        = errors.New("catalog has no finale encounter")
	ErrMultipleFinales = errors.New("catalog has more than one finale encounter")
)

// ErrUnknownEncounter is returned when a caller references an encounter
// key that is not present in the catalog.
var ErrUnknownEncounter = errors.New("unknown encounter")

// Encounter is a single challenge node in the progression graph.
// Encounters are authored in a JSON catalog file and never change at runtime.
type Encounter struct {
	Key             string `json:"key"`                        // unique identifier, e.g. "stormcaller"
	Name            string `json:"name"`                       // display name, e.g. "The Stormcaller"
	Finale          bool   `json:"finale,omitempty"`           // true for the single terminal encounter
	ArenaScene      string `json:"arena_scene"`                // scene ref of the encounter's arena
	TransitionScene string `json:"transition_scene,omitempty"` // optional template for the approach scene; "{side}" expands to Left/Right
}

// Catalog is the read-only registry of encounters for a game build.
// It is validated once at construction and safe to share by reference.
type Catalog struct {
	encounters []Encounter
	byKey      map[string]Encounter
	finale     Encounter
}

// New builds a Catalog from authored encounters. It fails if any key is
// duplicated or empty, or if the set does not contain exactly one finale.
func New(encounters []Encounter) (*Catalog, error) {
	c := &Catalog{
		encounters: make([]Encounter, 0, len(encounters)),
		byKey:      make(map[string]Encounter, len(encounters)),
	}

	finales := 0
	for _, e := range encounters {
		if e.Key == "" {
			return nil, fmt.Errorf("encounter %q has an empty key", e.Name)
		}
		if _, exists := c.byKey[e.Key]; exists {
			return nil, fmt.Errorf("duplicate encounter key %q", e.Key)
		}
		c.byKey[e.Key] = e
		c.encounters = append(c.encounters, e)
		if e.Finale {
			finales++
			c.finale = e
		}
	}

	switch {
	case finales == 0:
		return nil, ErrNoFinale
	case finales > 1:
		return nil, fmt.Errorf("%w: found %d", ErrMultipleFinales, finales)
	}

	return c, nil
}

// All returns the encounters in authored order.
func (c *Catalog) All() []Encounter {
	out := make([]Encounter, len(c.encounters))
	copy(out, c.encounters)
	return out
}

// Get returns the encounter for key, or ErrUnknownEncounter.
func (c *Catalog) Get(key string) (Encounter, error) {
	e, ok := c.byKey[key]
	if !ok {
		return Encounter{}, fmt.Errorf("%w: %q", ErrUnknownEncounter, key)
	}
	return e, nil
}

// Has reports whether key names a cataloged encounter.
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Finale returns the single terminal encounter. Validity is guaranteed by New.
func (c *Catalog) Finale() Encounter {
	return c.finale
}

// NonFinaleKeys returns the keys of all non-finale encounters in authored order.
func (c *Catalog) NonFinaleKeys() []string {
	keys := make([]string, 0, len(c.encounters))
	for _, e := range c.encounters {
		if !e.Finale {
			keys = append(keys, e.Key)
		}
	}
	return keys
}
