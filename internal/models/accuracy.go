package models

// TrendPoint is one step of the rolling accuracy trend.
type TrendPoint struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// AccuracySnapshot summarizes how well past predictions have held up.
type AccuracySnapshot struct {
	Overall int          `json:"overall"`
	Total   int          `json:"total"`
	Trend   []TrendPoint `json:"trend"`
}
