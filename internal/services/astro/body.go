package astro

// Body identifies a chart point: a real body, a lunar node or a derived point.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode
	MeanNode
	Ascendant
	Midheaven
	PartOfFortune
)

var bodyNames = [...]string{
	Sun:           "Sun",
	Moon:          "Moon",
	Mercury:       "Mercury",
	Venus:         "Venus",
	Mars:          "Mars",
	Jupiter:       "Jupiter",
	Saturn:        "Saturn",
	Uranus:        "Uranus",
	Neptune:       "Neptune",
	Pluto:         "Pluto",
	NorthNode:     "North Node",
	MeanNode:      "Mean Node",
	Ascendant:     "Ascendant",
	Midheaven:     "Midheaven",
	PartOfFortune: "Part of Fortune",
}

// EphemerisBodies are the bodies requested from the ephemeris, in chart order.
var EphemerisBodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, NorthNode, MeanNode}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return "Unknown"
	}
	return bodyNames[b]
}

// ParseBody resolves a display name ("North Node") to its Body.
func ParseBody(name string) (Body, bool) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), true
		}
	}
	return 0, false
}

// IsLuminary reports whether the named point is the Sun or the Moon.
func IsLuminary(name string) bool {
	return name == Sun.String() || name == Moon.String()
}

// Longitudes maps bodies to raw ecliptic longitudes. Bodies the ephemeris
// failed to resolve are simply absent.
type Longitudes map[Body]float64

// Lookup returns the longitude of b and whether it is present.
func (l Longitudes) Lookup(b Body) (float64, bool) {
	v, ok := l[b]
	return v, ok
}
