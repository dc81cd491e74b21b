package models

import "time"

// TimePoint is one reading of the national housing index. A nil Value
// marks a period with no usable observation.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

// EnrichedTimePoint is a TimePoint with the derived change and smoothing
// columns. Each derived column is nil while there is not enough history.
type EnrichedTimePoint struct {
	Date      time.Time `json:"date"`
	Value     *float64  `json:"value"`
	VarQoQPct *float64  `json:"var_qoq_pct"`
	VarYoYPct *float64  `json:"var_yoy_pct"`
	MM4       *float64  `json:"mm_4"`
	MM8       *float64  `json:"mm_8"`
}

// KPI summarises the latest observation of the series.
type KPI struct {
	LastValue float64   `json:"last_value"`
	LastDate  time.Time `json:"last_date"`
	QoQ       *float64  `json:"qoq"`
	YoY       *float64  `json:"yoy"`
	Count     int       `json:"count"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
