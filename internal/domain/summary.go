package domain

// DayBuckets is one time-series entry: emotion counts for a single UTC
// calendar date.
type DayBuckets struct {
	Date    string         `json:"date"`
	Buckets map[string]int `json:"buckets"`
}

// Summary is the aggregated view over a date window. Total always
// equals the sum over Buckets; TimeSeries is ascending by date.
type Summary struct {
	Buckets    map[string]int `json:"buckets"`
	TimeSeries []DayBuckets   `json:"timeSeries"`
	Total      int            `json:"total"`
}

// EmptySummary is the degraded-but-valid result returned when a backend
// read fails or the scope holds no data.
func EmptySummary() Summary {
	return Summary{
		Buckets:    map[string]int{},
		TimeSeries: []DayBuckets{},
		Total:      0,
	}
}
