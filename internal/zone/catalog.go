// Package zone resolves human-readable Malaysian state and district names to
// JAKIM zone codes using the zone catalog.
package zone

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/smokyabdulrahman/solat/internal/api"
)

// ErrNotFound is returned when no zone matches a state/district pair or code.
var ErrNotFound = errors.New("zone not found")

// codePattern matches JAKIM zone codes such as "KTN01" or "WLY02".
var codePattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{2}$`)

// IsCode reports whether s looks like a zone code.
func IsCode(s string) bool {
	return codePattern.MatchString(api.NormalizeZone(s))
}

// Catalog is an immutable, indexed view over the zone list.
type Catalog struct {
	zones  []api.Zone
	byCode map[string]api.Zone
}

// NewCatalog indexes zones by code. Entries without a code are skipped.
func NewCatalog(zones []api.Zone) *Catalog {
	c := &Catalog{byCode: make(map[string]api.Zone, len(zones))}
	for _, z := range zones {
		code := api.NormalizeZone(z.JakimCode)
		if code == "" {
			continue
		}
		z.JakimCode = code
		c.zones = append(c.zones, z)
		c.byCode[code] = z
	}
	return c
}

// Zones returns the catalog entries in their original order.
func (c *Catalog) Zones() []api.Zone {
	if c == nil {
		return nil
	}
	return c.zones
}

// Len returns the number of zones.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.zones)
}

// States returns the distinct state names, sorted.
func (c *Catalog) States() []string {
	seen := make(map[string]bool)
	var states []string
	for _, z := range c.Zones() {
		if !seen[z.Negeri] {
			seen[z.Negeri] = true
			states = append(states, z.Negeri)
		}
	}
	sort.Strings(states)
	return states
}

// InState returns the zones of one state, matched case-insensitively.
// An empty state returns every zone.
func (c *Catalog) InState(state string) []api.Zone {
	state = strings.TrimSpace(state)
	if state == "" {
		return c.Zones()
	}
	var out []api.Zone
	for _, z := range c.Zones() {
		if strings.EqualFold(z.Negeri, state) {
			out = append(out, z)
		}
	}
	return out
}

// Find returns the zone with the given code.
func (c *Catalog) Find(code string) (api.Zone, bool) {
	if c == nil {
		return api.Zone{}, false
	}
	z, ok := c.byCode[api.NormalizeZone(code)]
	return z, ok
}

// Describe returns "KTN01 (Kelantan: Bachok, Kota Bharu)" or just the code
// when the catalog does not know it.
func (c *Catalog) Describe(code string) string {
	code = api.NormalizeZone(code)
	z, ok := c.Find(code)
	if !ok {
		return code
	}
	return fmt.Sprintf("%s (%s: %s)", code, z.Negeri, z.Daerah)
}

// Lookup resolves a (state, district) pair to a zone code. Both are matched
// case-insensitively; the district may be the full district text of a zone or
// any one of its comma-separated parts.
func (c *Catalog) Lookup(state, district string) (string, error) {
	state = strings.TrimSpace(state)
	district = strings.TrimSpace(district)
	if state == "" || district == "" {
		return "", fmt.Errorf("%w: state and district are required", ErrNotFound)
	}

	for _, z := range c.InState(state) {
		if strings.EqualFold(z.Daerah, district) {
			return z.JakimCode, nil
		}
		for _, part := range strings.Split(z.Daerah, ",") {
			if strings.EqualFold(strings.TrimSpace(part), district) {
				return z.JakimCode, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no zone for district %q in %q", ErrNotFound, district, state)
}

// Resolve accepts either a zone code in state (district empty) or a
// state/district pair. A code is checked against the catalog when the catalog
// is loaded; with an empty catalog any well-formed code is accepted.
func (c *Catalog) Resolve(state, district string) (string, error) {
	if strings.TrimSpace(district) == "" {
		code := api.NormalizeZone(state)
		if !IsCode(code) {
			return "", fmt.Errorf("%w: %q is not a zone code", ErrNotFound, state)
		}
		if c.Len() > 0 {
			if _, ok := c.Find(code); !ok {
				return "", fmt.Errorf("%w: unknown zone code %s", ErrNotFound, code)
			}
		}
		return code, nil
	}
	return c.Lookup(state, district)
}
