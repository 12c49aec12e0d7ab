package generate

// Mode selects which embedding spaces drive generation.
type Mode string

const (
	// ModeBaseAccent grows a base in the original complement space and the
	// accents in the food pairing space.
	ModeBaseAccent Mode = "ocn_fph"
	// ModeUpdatedComplement grows the whole recipe in the updated
	// complement space.
	ModeUpdatedComplement Mode = "ucn"
)

// RandomCuisine asks for a cuisine picked uniformly at random.
const RandomCuisine = "random"

// Default request values.
const (
	DefaultMode = ModeUpdatedComplement
	DefaultMin  = 7
	DefaultMax  = 7
)

// Request describes one generation run in terms of names, as supplied by a
// user.
type Request struct {
	Seeds   []string `json:"seeds,omitempty"`
	Cuisine string   `json:"cuisine,omitempty"`
	Mode    Mode     `json:"network,omitempty"`
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	Accent  int      `json:"accent,omitempty"`
	Avoid   []string `json:"avoid,omitempty"`
}

// WithDefaults fills unset fields: mode ucn and a size of 7. A lone Min or
// Max also sets the other bound.
func (r Request) WithDefaults() Request {
	if r.Mode == "" {
		r.Mode = DefaultMode
	}
	switch {
	case r.Min == 0 && r.Max == 0:
		r.Min, r.Max = DefaultMin, DefaultMax
	case r.Min == 0:
		r.Min = min(DefaultMin, r.Max)
	case r.Max == 0:
		r.Max = max(DefaultMax, r.Min)
	}
	return r
}

// Validate checks option combinations without touching any data.
func (r Request) Validate() error {
	switch r.Mode {
	case ModeBaseAccent, ModeUpdatedComplement:
	default:
		return configErrorf("network", "%q is not one of %s, %s", r.Mode, ModeBaseAccent, ModeUpdatedComplement)
	}
	if r.Min < 1 {
		return configErrorf("min", "must be at least 1, got %d", r.Min)
	}
	if r.Max < r.Min {
		return configErrorf("max", "%d is below min %d", r.Max, r.Min)
	}
	if r.Accent < 0 {
		return configErrorf("accent", "must not be negative, got %d", r.Accent)
	}
	if r.Accent > 0 && r.Mode != ModeBaseAccent {
		return configErrorf("accent", "accent ingredients need network %s, got %s", ModeBaseAccent, r.Mode)
	}
	if r.Accent > r.Min {
		return configErrorf("accent", "%d exceeds the minimum ingredient count %d", r.Accent, r.Min)
	}
	return nil
}

// ValidateFanout checks a substitute fan-out.
func ValidateFanout(k int) error {
	if k < 1 {
		return configErrorf("k", "must be at least 1, got %d", k)
	}
	return nil
}
