package pricing

import (
	"fmt"
	"sort"
	"strings"
)

// Crop identifies one of the commodities the price model knows about.
type Crop string

const (
	Rice   Crop = "Rice"
	Wheat  Crop = "Wheat"
	Onion  Crop = "Onion"
	Tomato Crop = "Tomato"
	Cotton Crop = "Cotton"
)

// Crops lists the crop domain in sampling order. Generation draws an index
// into this slice, so reordering it changes generated datasets.
var Crops = []Crop{Rice, Wheat, Onion, Tomato, Cotton}

// District identifies a market district within the generated state.
type District string

const (
	Guntur    District = "Guntur"
	Warangal  District = "Warangal"
	Krishna   District = "Krishna"
	Nizamabad District = "Nizamabad"
	Khammam   District = "Khammam"
)

// Districts lists the district domain in sampling order.
var Districts = []District{Guntur, Warangal, Krishna, Nizamabad, Khammam}

// DefaultState is the constant state label written on every record.
const DefaultState = "Telangana"

// ParseCrop maps a name (case-insensitive) to a Crop.
func ParseCrop(s string) (Crop, error) {
	s = strings.TrimSpace(s)
	for _, c := range Crops {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown crop %q", s)
}

// ParseDistrict maps a name (case-insensitive) to a District.
func ParseDistrict(s string) (District, error) {
	s = strings.TrimSpace(s)
	for _, d := range Districts {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown district %q", s)
}

// SortedCrops returns a copy of the crop domain sorted by name.
func SortedCrops() []Crop {
	out := append([]Crop(nil), Crops...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedDistricts returns a copy of the district domain sorted by name.
func SortedDistricts() []District {
	out := append([]District(nil), Districts...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
