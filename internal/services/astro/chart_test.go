package astro

import "testing"

func testSnapshot() Snapshot {
	return Snapshot{
		Bodies: Longitudes{
			Sun:       10,
			Moon:      40,
			Mercury:   15.5,
			Venus:     70,
			Mars:      190,
			Jupiter:   130,
			Saturn:    250,
			Uranus:    280,
			Neptune:   300,
			Pluto:     240,
			NorthNode: 95,
			MeanNode:  96,
		},
		Houses: Houses{
			Cusps:     equalCusps(),
			Ascendant: 100,
			Midheaven: 5,
		},
	}
}

func TestAssembleChartPositions(t *testing.T) {
	chart := AssembleChart(testSnapshot())

	if len(chart.PlanetaryPositions) != 15 {
		t.Fatalf("expected 15 positions, got %d", len(chart.PlanetaryPositions))
	}
	if len(chart.SkippedBodies) != 0 {
		t.Fatalf("unexpected skipped bodies %v", chart.SkippedBodies)
	}

	sun := chart.PlanetaryPositions["Sun"]
	if sun.Sign != "Aries" || sun.DegreesInSign != 10 || sun.House != 1 || sun.FormattedHouse != "House 1" {
		t.Fatalf("unexpected sun %+v", sun)
	}
	mercury := chart.PlanetaryPositions["Mercury"]
	if mercury.FormattedPosition != "Aries 15° 30'" {
		t.Fatalf("unexpected mercury %+v", mercury)
	}

	// angles keep their fixed houses even though LocateHouse would disagree
	if asc := chart.PlanetaryPositions["Ascendant"]; asc.House != 1 || asc.Sign != "Cancer" {
		t.Fatalf("unexpected ascendant %+v", asc)
	}
	if mc := chart.PlanetaryPositions["Midheaven"]; mc.House != 10 || mc.Sign != "Aries" {
		t.Fatalf("unexpected midheaven %+v", mc)
	}

	pof, ok := chart.PlanetaryPositions["Part of Fortune"]
	if !ok {
		t.Fatalf("part of fortune missing")
	}
	// 100 + 40 - 10 = 130
	if pof.EclipticLongitude != 130 || pof.Sign != "Leo" || pof.House != 5 {
		t.Fatalf("unexpected part of fortune %+v", pof)
	}
}

func TestAssembleChartCusps(t *testing.T) {
	chart := AssembleChart(testSnapshot())
	if len(chart.HouseCusps) != 12 {
		t.Fatalf("expected 12 cusps, got %d", len(chart.HouseCusps))
	}
	for i, c := range chart.HouseCusps {
		if c.HouseNumber != i+1 || c.Sign != Signs()[i] || c.DegreesInSign != 0 {
			t.Fatalf("unexpected cusp %+v", c)
		}
	}
}

func TestAssembleChartAspectsIncludeDerivedPoints(t *testing.T) {
	chart := AssembleChart(testSnapshot())

	var sunMoon, sunMC, ascPOF bool
	for _, a := range chart.Aspects {
		switch {
		case a.Planet1 == "Sun" && a.Planet2 == "Moon" && a.AspectType == "Semisextile":
			sunMoon = true
		case a.Planet1 == "Sun" && a.Planet2 == "Midheaven" && a.AspectType == "Conjunction":
			sunMC = true
		case a.Planet1 == "Ascendant" && a.Planet2 == "Part of Fortune" && a.AspectType == "Semisextile":
			ascPOF = true
		}
	}
	if !sunMoon || !sunMC || !ascPOF {
		t.Fatalf("missing aspects sunMoon=%v sunMC=%v ascPOF=%v in %+v", sunMoon, sunMC, ascPOF, chart.Aspects)
	}
}

func TestAssembleChartMissingMoon(t *testing.T) {
	s := testSnapshot()
	delete(s.Bodies, Moon)

	chart := AssembleChart(s)

	if _, ok := chart.PlanetaryPositions["Moon"]; ok {
		t.Fatalf("moon should be omitted")
	}
	if _, ok := chart.PlanetaryPositions["Part of Fortune"]; ok {
		t.Fatalf("part of fortune needs both luminaries")
	}
	if len(chart.SkippedBodies) != 1 || chart.SkippedBodies[0] != "Moon" {
		t.Fatalf("unexpected skipped %v", chart.SkippedBodies)
	}
	for _, a := range chart.Aspects {
		if a.Planet1 == "Moon" || a.Planet2 == "Moon" {
			t.Fatalf("aspect references missing moon: %+v", a)
		}
	}
}

func TestPartOfFortuneWraps(t *testing.T) {
	got, ok := PartOfFortuneLongitude(10, Longitudes{Sun: 300, Moon: 20})
	if !ok || got != 90 {
		t.Fatalf("expected 90, got %v (ok=%v)", got, ok)
	}
	if _, ok := PartOfFortuneLongitude(10, Longitudes{Moon: 20}); ok {
		t.Fatalf("expected unavailable without sun")
	}
}

func TestParseBody(t *testing.T) {
	b, ok := ParseBody("North Node")
	if !ok || b != NorthNode {
		t.Fatalf("unexpected parse %v %v", b, ok)
	}
	if _, ok := ParseBody("Chiron"); ok {
		t.Fatalf("expected unknown body")
	}
	if Body(99).String() != "Unknown" {
		t.Fatalf("unexpected name for out of range body")
	}
}

func TestJulianDay(t *testing.T) {
	if got := JulianDay(2000, 1, 1, 12); got != 2451545.0 {
		t.Fatalf("J2000 = %v", got)
	}
	if got := JulianDay(1987, 4, 10, 0); got != 2446895.5 {
		t.Fatalf("1987-04-10 = %v", got)
	}
	if got := JulianDayUT(2451545.0, 6); got != 2451544.75 {
		t.Fatalf("ut shift = %v", got)
	}
}
