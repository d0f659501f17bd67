package narrative

import (
	"fmt"
	"strings"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
)

// maxPromptAspects caps how many major aspects are described to the model.
const maxPromptAspects = 5

type depth struct {
	name          string
	luminaryParas string
	ascParas      string
	aspectParas   string
	closing       string
}

var (
	concise = depth{
		name:          "concise",
		luminaryParas: "2-3",
		ascParas:      "2",
		aspectParas:   "1-2",
		closing:       "Keep interpretations concise and focused",
	}
	comprehensive = depth{
		name:          "comprehensive",
		luminaryParas: "3-4",
		ascParas:      "2-3",
		aspectParas:   "2-3",
		closing:       "Provide actionable advice and growth opportunities",
	}
)

// MajorAspects returns at most five Conjunction, Opposition, Trine or Square
// aspects, in input order.
func MajorAspects(aspects []models.AnalysisAspect) []models.AnalysisAspect {
	out := make([]models.AnalysisAspect, 0, maxPromptAspects)
	for _, a := range aspects {
		if len(out) == maxPromptAspects {
			break
		}
		if astro.IsMajorAspect(a.AspectType) {
			out = append(out, a)
		}
	}
	return out
}

// BuildPrompt renders the interpretation request for one chart. The caller
// guarantees Sun, Moon and Ascendant are present.
func BuildPrompt(chart models.AnalysisChartData, full bool) string {
	sun := chart.PlanetaryPositions["Sun"]
	moon := chart.PlanetaryPositions["Moon"]
	asc := chart.PlanetaryPositions["Ascendant"]

	d := concise
	if full {
		d = comprehensive
	}

	var b strings.Builder
	b.WriteString("You are an expert astrologer. Analyze the following natal chart and provide a detailed interpretation in English.\n\n")

	b.WriteString("**Chart Data:**\n\n")
	fmt.Fprintf(&b, "Sun: %s (House %d)\n", sun.Sign, sun.House)
	fmt.Fprintf(&b, "Moon: %s (House %d)\n", moon.Sign, moon.House)
	fmt.Fprintf(&b, "Ascendant: %s\n\n", asc.Sign)

	b.WriteString("**Major Aspects:**\n")
	for _, a := range MajorAspects(chart.Aspects) {
		fmt.Fprintf(&b, "- %s %s %s (Orb: %.2f°)\n", a.Planet1, a.AspectType, a.Planet2, a.Orb)
	}

	b.WriteString("\n**Instructions:**\n")
	fmt.Fprintf(&b, "Provide a %s analysis divided into these sections:\n\n", d.name)

	b.WriteString("1. **Introduction** (2-3 sentences): Brief overview of the chart's main themes.\n\n")

	sections := []struct {
		title   string
		paras   string
		points  []string
		extra   string
		closing string
	}{
		{
			title:   "Sun Sign Analysis",
			paras:   d.luminaryParas,
			points:  []string{"Core identity and life purpose", "Strengths and natural talents"},
			extra:   "Challenges and growth areas",
			closing: fmt.Sprintf("How Sun in %s manifests in House %d", sun.Sign, sun.House),
		},
		{
			title:   "Moon Sign Analysis",
			paras:   d.luminaryParas,
			points:  []string{"Emotional nature and inner needs", "Comfort zones and emotional security"},
			extra:   "Relationship patterns and nurturing style",
			closing: fmt.Sprintf("How Moon in %s manifests in House %d", moon.Sign, moon.House),
		},
		{
			title:  "Ascendant Analysis",
			paras:  d.ascParas,
			points: []string{"First impressions and outward persona", "Life approach and physical vitality"},
			extra:  "How others perceive you",
		},
		{
			title:  "Major Aspects Analysis",
			paras:  d.aspectParas,
			points: []string{"Interpretation of the most significant planetary aspects", "How these aspects shape personality and life experiences"},
			extra:  "Specific advice for working with these energies",
		},
	}
	for i, sec := range sections {
		fmt.Fprintf(&b, "%d. **%s** (%s paragraphs):\n", i+2, sec.title, sec.paras)
		for _, pt := range sec.points {
			fmt.Fprintf(&b, "   - %s\n", pt)
		}
		if full {
			fmt.Fprintf(&b, "   - %s\n", sec.extra)
		}
		if sec.closing != "" {
			fmt.Fprintf(&b, "   - %s\n", sec.closing)
		}
		b.WriteString("\n")
	}

	b.WriteString("6. **Conclusion** (2-3 sentences): Summary of key themes and potential.\n\n")

	b.WriteString("**Format Requirements:**\n")
	fmt.Fprintf(&b, "- Use clear headers for each section: \"## Introduction\", \"## Sun in %s\", etc.\n", sun.Sign)
	b.WriteString("- Write in a professional yet accessible tone\n")
	b.WriteString("- Focus on empowering insights rather than predictions\n")
	b.WriteString("- Avoid fortune-telling or absolute statements\n")
	fmt.Fprintf(&b, "- %s\n", d.closing)
	b.WriteString("- Each paragraph should be 3-5 sentences\n\n")

	b.WriteString("Begin the analysis now:")
	return b.String()
}
