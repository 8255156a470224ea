package impact

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nwpdiag/dataimpact/internal/config"
	"github.com/nwpdiag/dataimpact/internal/models"
)

// DomainFilter decides whether an observation at (lat, lon) is inside the
// analysis domain. Filters are plain predicates; there is no expression
// evaluation anywhere.
type DomainFilter func(lat, lon float64) bool

// FullDomain accepts everything.
func FullDomain(lat, lon float64) bool { return true }

// ParseDomain compiles a filter string into a predicate. Accepted forms:
//
//	"" / "true"                       everything
//	"false"                           nothing
//	"box:latMin,latMax,lonMin,lonMax" bounding box, longitudes in [0,360)
//	any key of presets                named bounding box
func ParseDomain(expr string, presets map[string]config.Box) (DomainFilter, error) {
	s := strings.TrimSpace(expr)
	switch strings.ToLower(s) {
	case "", "true":
		return FullDomain, nil
	case "false":
		return func(lat, lon float64) bool { return false }, nil
	}
	if rest, ok := strings.CutPrefix(s, "box:"); ok {
		parts := strings.Split(rest, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("domain box needs 4 values, got %q", expr)
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("domain box value %q: %w", p, err)
			}
			vals[i] = v
		}
		return boxFilter(config.Box{LatMin: vals[0], LatMax: vals[1], LonMin: vals[2], LonMax: vals[3]}), nil
	}
	if box, ok := presets[s]; ok {
		return boxFilter(box), nil
	}
	return nil, fmt.Errorf("unknown domain filter %q", expr)
}

func boxFilter(b config.Box) DomainFilter {
	return func(lat, lon float64) bool {
		if lat < b.LatMin || lat > b.LatMax {
			return false
		}
		lon = models.NormalizeLon(lon)
		if b.LonMin <= b.LonMax {
			return lon >= b.LonMin && lon <= b.LonMax
		}
		// Box crossing the 0 meridian.
		return lon >= b.LonMin || lon <= b.LonMax
	}
}
