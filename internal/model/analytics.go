package model

// Series is the chart-ready result of a metric aggregation.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Total  float64   `json:"total"`
}

func EmptySeries() *Series {
	return &Series{Labels: []string{}, Values: []float64{}}
}

// MetricRow is one raw joined row before numeric parsing.
type MetricRow struct {
	GroupID int64   `db:"group_id"`
	Label   string  `db:"label"`
	Value   *string `db:"value"`
}
