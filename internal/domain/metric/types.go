package metric

import "encoding/json"

// DailySleep is one day of the device's daily sleep aggregate.
type DailySleep struct {
	Day          string          `json:"day"`
	Score        *int            `json:"score"`
	Contributors json.RawMessage `json:"contributors"`
}

// DailyStress is one day of the device's daily stress aggregate.
type DailyStress struct {
	Day          string  `json:"day"`
	StressHigh   *int    `json:"stress_high"`
	RecoveryHigh *int    `json:"recovery_high"`
	DaySummary   *string `json:"day_summary"`
}

// HeartRateSample is a single timestamped beats-per-minute reading.
type HeartRateSample struct {
	BPM       float64 `json:"bpm"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
}

// SampleSeries is the device's fixed-interval item list for a metric family.
type SampleSeries struct {
	Interval  float64    `json:"interval"`
	Items     []*float64 `json:"items"`
	Timestamp string     `json:"timestamp"`
}

// SleepPeriod is one detailed sleep period from the device API. Numeric fields
// are pointers: nil means the device did not report the value, which must stay
// distinguishable from a reported zero.
type SleepPeriod struct {
	Day                string          `json:"day"`
	BedtimeStart       string          `json:"bedtime_start"`
	BedtimeEnd         string          `json:"bedtime_end"`
	AverageHeartRate   *float64        `json:"average_heart_rate"`
	HeartRate          *SampleSeries   `json:"heart_rate"`
	AverageHRV         *float64        `json:"average_hrv"`
	HRV                *SampleSeries   `json:"hrv"`
	Movement30Sec      string          `json:"movement_30_sec"`
	Readiness          json.RawMessage `json:"readiness"`
	TotalSleepDuration *int            `json:"total_sleep_duration"`
	TimeInBed          *int            `json:"time_in_bed"`
	RemSleepDuration   *int            `json:"rem_sleep_duration"`
	LightSleepDuration *int            `json:"light_sleep_duration"`
	DeepSleepDuration  *int            `json:"deep_sleep_duration"`
	AwakeTime          *int            `json:"awake_time"`
}

// RangeStats carries average/min/max for one metric family.
type RangeStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// DurationStrings holds the human readable duration fields of a sleep analysis.
type DurationStrings struct {
	TotalSleep string `json:"total_sleep"`
	TimeInBed  string `json:"time_in_bed"`
	RemSleep   string `json:"rem_sleep"`
	LightSleep string `json:"light_sleep"`
	DeepSleep  string `json:"deep_sleep"`
	AwakeTime  string `json:"awake_time"`
}

// AnalysisRecord is the structured sleep analysis handed back to the reasoning
// loop. Family stats are nil when the validator marked the family unavailable,
// so they serialize as explicit nulls rather than vanishing.
type AnalysisRecord struct {
	Day          string             `json:"day"`
	BedtimeStart string             `json:"bedtime_start"`
	BedtimeEnd   string             `json:"bedtime_end"`
	HeartRate    *RangeStats        `json:"heart_rate"`
	HRV          *RangeStats        `json:"hrv"`
	Movement     map[string]float64 `json:"movement_breakdown"`
	Readiness    json.RawMessage    `json:"readiness"`
	Durations    DurationStrings    `json:"durations"`
}

// HeartRateStats aggregates a set of heart rate samples. All fields are nil for
// an empty reading set; workout/non-workout means are nil when their subset is
// empty.
type HeartRateStats struct {
	MaxBPM               *float64 `json:"max_bpm"`
	MinBPM               *float64 `json:"min_bpm"`
	AverageBPMWorkout    *float64 `json:"average_bpm_workout"`
	AverageBPMNonWorkout *float64 `json:"average_bpm_non_workout"`
}
