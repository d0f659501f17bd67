package narrative

import (
	"math"
	"strings"
	"time"

	"AstroChart/internal/domain/models"
)

const (
	unavailable = "Analysis not available."
	// previewShare is the fraction of paragraphs kept in a concise analysis.
	previewShare = 0.3
)

// Section titles as the model is asked to write them after "##".
const (
	TitleIntroduction = "Introduction"
	TitleSun          = "Sun in"
	TitleMoon         = "Moon in"
	TitleAscendant    = "Ascendant"
	TitleMajorAspects = "Major Aspects"
	TitleConclusion   = "Conclusion"
)

// ParseAnalysis splits a model response on "##" headers into the six
// analysis sections. Concise analyses keep only the leading share of each
// section's paragraphs.
func ParseAnalysis(response string, full bool, now time.Time) models.NatalChartAnalysis {
	var sections []string
	for _, s := range strings.Split(response, "##") {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, s)
		}
	}

	extract := func(title string) models.AnalysisSection {
		return extractSection(sections, title, full)
	}

	return models.NatalChartAnalysis{
		Introduction:    extract(TitleIntroduction),
		Sun:             extract(TitleSun),
		Moon:            extract(TitleMoon),
		Ascendant:       extract(TitleAscendant),
		MajorAspects:    extract(TitleMajorAspects),
		Conclusion:      extract(TitleConclusion),
		GeneratedAt:     now.UTC().Format(time.RFC3339),
		EstimatedTokens: EstimateTokenUsage(full),
	}
}

func extractSection(sections []string, title string, full bool) models.AnalysisSection {
	for _, s := range sections {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) < len(title) || !strings.EqualFold(trimmed[:len(title)], title) {
			continue
		}

		content := strings.TrimSpace(trimmed[len(title):])
		truncated := false
		if !full {
			content, truncated = preview(content)
		}
		return models.AnalysisSection{Title: title, Content: content, IsTruncated: truncated}
	}
	return models.AnalysisSection{Title: title, Content: unavailable}
}

// preview keeps ceil(30%) of the non-blank paragraphs, at least one. A single
// paragraph is returned untouched.
func preview(content string) (string, bool) {
	var paragraphs []string
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) <= 1 {
		return content, false
	}

	keep := int(math.Ceil(float64(len(paragraphs)) * previewShare))
	if keep < 1 {
		keep = 1
	}
	return strings.Join(paragraphs[:keep], "\n\n"), true
}

// EstimateTokenUsage returns the output token budget requested for an analysis.
func EstimateTokenUsage(full bool) int {
	if full {
		return 4000
	}
	return 2000
}
