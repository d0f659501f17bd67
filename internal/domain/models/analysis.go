package models

// AnalysisPosition is the slice of a PlanetaryPosition the narrative needs.
type AnalysisPosition struct {
	Sign          string `json:"sign" validate:"required"`
	House         int    `json:"house" validate:"gte=0,lte=12"`
	DegreesInSign int    `json:"degreesInSign"`
}

type AnalysisAspect struct {
	Planet1    string  `json:"planet1"`
	AspectType string  `json:"aspectType"`
	Planet2    string  `json:"planet2"`
	Orb        float64 `json:"orb"`
}

type AnalysisChartData struct {
	PlanetaryPositions map[string]AnalysisPosition `json:"planetaryPositions" validate:"required,min=1,dive"`
	Aspects            []AnalysisAspect            `json:"aspects"`
}

type AnalysisRequest struct {
	ChartData    AnalysisChartData `json:"chartData" validate:"required"`
	FullAnalysis bool              `json:"fullAnalysis" default:"false"`
}

type AnalysisSection struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsTruncated bool   `json:"isTruncated"`
}

type NatalChartAnalysis struct {
	Introduction AnalysisSection `json:"introduction"`
	Sun          AnalysisSection `json:"sun"`
	Moon         AnalysisSection `json:"moon"`
	Ascendant    AnalysisSection `json:"ascendant"`
	MajorAspects AnalysisSection `json:"majorAspects"`
	Conclusion   AnalysisSection `json:"conclusion"`
	GeneratedAt  string          `json:"generatedAt"`
	// EstimatedTokens is the output budget requested from the model.
	EstimatedTokens int `json:"estimatedTokens"`
}
