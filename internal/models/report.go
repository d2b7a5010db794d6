package models

type Side string

const (
	SideA   Side = "A"
	SideB   Side = "B"
	SideTie Side = "Tie"
)

// TieID is the ExpertReport winner id when both videos score the same.
const TieID = "Tie"

type AnalysisDimension struct {
	Winner Side   `json:"winner"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

type ReportDimensions struct {
	Title      AnalysisDimension `json:"title"`
	Thumbnail  AnalysisDimension `json:"thumbnail"`
	Engagement AnalysisDimension `json:"engagement"`
	Retention  AnalysisDimension `json:"retention"`
}

type ExpertReport struct {
	WinnerID        string           `json:"winner_id"`
	Verdict         string           `json:"verdict"`
	ScoreA          int              `json:"score_a"`
	ScoreB          int              `json:"score_b"`
	Dimensions      ReportDimensions `json:"dimensions"`
	Recommendations []string         `json:"recommendations"`
}
