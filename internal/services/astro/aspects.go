package astro

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"AstroChart/internal/domain/models"
)

// AspectCategory separates the major aspects, which get the luminary bonus,
// from the minor ones.
type AspectCategory int

const (
	Major AspectCategory = iota
	Minor
)

// AspectDefinition is one entry of the aspect catalog.
type AspectDefinition struct {
	Name     string
	Angle    float64
	BaseOrb  float64
	Category AspectCategory
}

// LuminaryBonus widens the orb of major aspects involving the Sun or Moon.
const LuminaryBonus = 3.0

var aspectCatalog = [...]AspectDefinition{
	{Name: "Conjunction", Angle: 0, BaseOrb: 9.0, Category: Major},
	{Name: "Opposition", Angle: 180, BaseOrb: 9.0, Category: Major},
	{Name: "Trine", Angle: 120, BaseOrb: 9.0, Category: Major},
	{Name: "Square", Angle: 90, BaseOrb: 9.0, Category: Major},
	{Name: "Sextile", Angle: 60, BaseOrb: 6.0, Category: Minor},
	{Name: "Quincunx", Angle: 150, BaseOrb: 3.0, Category: Minor},
	{Name: "Sesquiquadrate", Angle: 135, BaseOrb: 3.0, Category: Minor},
	{Name: "Semisquare", Angle: 45, BaseOrb: 3.0, Category: Minor},
	{Name: "Semisextile", Angle: 30, BaseOrb: 3.0, Category: Minor},
}

// AspectCatalog returns a copy of the aspect definitions in evaluation order.
func AspectCatalog() []AspectDefinition {
	out := make([]AspectDefinition, len(aspectCatalog))
	copy(out, aspectCatalog[:])
	return out
}

// IsMajorAspect reports whether name is one of the major aspects.
func IsMajorAspect(name string) bool {
	for _, def := range aspectCatalog {
		if def.Name == name {
			return def.Category == Major
		}
	}
	return false
}

// Point is a named longitude fed to the aspect detector.
type Point struct {
	Name      string  `json:"name" yaml:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Separation is the shortest angular distance between two longitudes, in [0, 180].
func Separation(a, b float64) float64 {
	diff := math.Abs(Normalize(a) - Normalize(b))
	return math.Min(diff, 360-diff)
}

// EffectiveOrb is the tolerance of def for a pair, including the luminary bonus.
func EffectiveOrb(def AspectDefinition, name1, name2 string) float64 {
	orb := def.BaseOrb
	if def.Category == Major && (IsLuminary(name1) || IsLuminary(name2)) {
		orb += LuminaryBonus
	}
	return orb
}

// DetectAspects finds every aspect between each pair of points (i < j in input
// order). A pair can match several definitions; all matches are returned.
func DetectAspects(points []Point) []models.Aspect {
	aspects := make([]models.Aspect, 0)

	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			p1, p2 := points[i], points[j]
			sep := Separation(p1.Longitude, p2.Longitude)

			for _, def := range aspectCatalog {
				orb := math.Abs(sep - def.Angle)
				// NaN orbs fail this test too
				if !(orb <= EffectiveOrb(def, p1.Name, p2.Name)) {
					continue
				}

				rounded := decimal.NewFromFloat(orb).Round(2)
				aspects = append(aspects, models.Aspect{
					Planet1:    p1.Name,
					AspectType: def.Name,
					Planet2:    p2.Name,
					Orb:        rounded.InexactFloat64(),
					FullDescription: fmt.Sprintf("%s %s %s (Orb: %s°)",
						p1.Name, def.Name, p2.Name, rounded.StringFixed(2)),
				})
			}
		}
	}

	return aspects
}
