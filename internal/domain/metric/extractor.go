package metric

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Diagnostic messages returned as ordinary tool content so the reasoning loop
// can surface them to the model instead of crashing the request.
const (
	MsgNoSleepData     = "No sleep data found for the given date range"
	MsgNoStressData    = "No stress data found for the given date range"
	MsgNoHeartRateData = "No heart rate data found for the given date range"
	MsgSingleDayRange  = "Sleep analysis needs a date range spanning at least two days. Please widen the start and end dates and try again."
)

// Movement bucket codes reported by the device, one per fixed-width time
// bucket of the night.
const (
	movementNoMotion = '1'
	movementRestless = '2'
	movementTossing  = '3'
	movementActive   = '4'
)

var movementStates = map[byte]string{
	movementNoMotion: "no motion",
	movementRestless: "restless",
	movementTossing:  "tossing and turning",
	movementActive:   "active",
}

// DeviceClient fetches raw metric envelopes from the wearable API. Raw bytes
// are returned so the validator can inspect the response before decoding.
type DeviceClient interface {
	DailySleep(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
	DailyStress(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
	HeartRate(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
	SleepPeriods(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
}

// Extractor turns validated raw device data into normalized, human readable
// summaries for the reasoning loop.
type Extractor struct {
	devices DeviceClient
	log     zerolog.Logger
}

// NewExtractor wires the extractor against a device client.
func NewExtractor(devices DeviceClient, log zerolog.Logger) *Extractor {
	return &Extractor{
		devices: devices,
		log:     log.With().Str("component", "metric-extractor").Logger(),
	}
}

// SleepSummary renders one line per day of daily sleep data.
func (e *Extractor) SleepSummary(ctx context.Context, startDate, endDate, credential string) (string, error) {
	raw, err := e.devices.DailySleep(ctx, startDate, endDate, credential)
	if err != nil {
		return "", err
	}
	if !Validate(raw, SourceWearable, LevelBasic).Basic {
		return MsgNoSleepData, nil
	}

	var envelope struct {
		Data []DailySleep `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return MsgNoSleepData, nil
	}

	lines := make([]string, 0, len(envelope.Data))
	for _, day := range envelope.Data {
		lines = append(lines, fmt.Sprintf(
			"Score: %s, Contributors: %s, Day: %s",
			formatOptionalInt(day.Score),
			formatRawObject(day.Contributors),
			day.Day,
		))
	}
	return strings.Join(lines, "\n"), nil
}

// StressSummary renders one line per day of daily stress data.
func (e *Extractor) StressSummary(ctx context.Context, startDate, endDate, credential string) (string, error) {
	raw, err := e.devices.DailyStress(ctx, startDate, endDate, credential)
	if err != nil {
		return "", err
	}
	if !Validate(raw, SourceWearable, LevelBasic).Basic {
		return MsgNoStressData, nil
	}

	var envelope struct {
		Data []DailyStress `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return MsgNoStressData, nil
	}

	lines := make([]string, 0, len(envelope.Data))
	for _, day := range envelope.Data {
		summary := "null"
		if day.DaySummary != nil {
			summary = *day.DaySummary
		}
		lines = append(lines, fmt.Sprintf(
			"Stress High: %s, Recovery High: %s, Day: %s, Day Summary: %s",
			formatOptionalInt(day.StressHigh),
			formatOptionalInt(day.RecoveryHigh),
			day.Day,
			summary,
		))
	}
	return strings.Join(lines, "\n"), nil
}

// HeartRateSummary aggregates the raw bpm readings over the range and renders
// the four headline numbers.
func (e *Extractor) HeartRateSummary(ctx context.Context, startDate, endDate, credential string) (string, error) {
	raw, err := e.devices.HeartRate(ctx, startDate, endDate, credential)
	if err != nil {
		return "", err
	}
	if !Validate(raw, SourceWearable, LevelBasic).Basic {
		return MsgNoHeartRateData, nil
	}

	var envelope struct {
		Data []HeartRateSample `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return MsgNoHeartRateData, nil
	}

	stats := AggregateHeartRate(envelope.Data)
	return fmt.Sprintf(
		"Max BPM: %s, Min BPM: %s, Average BPM (workout): %s, Average BPM (non-workout): %s",
		formatOptionalFloat(stats.MaxBPM),
		formatOptionalFloat(stats.MinBPM),
		formatOptionalFloat(stats.AverageBPMWorkout),
		formatOptionalFloat(stats.AverageBPMNonWorkout),
	), nil
}

// SleepAnalysis builds the structured sleep analysis for a multi-day range and
// returns it as JSON text. Single-day ranges and missing data produce
// diagnostic messages, never errors: the device reports a night of sleep under
// the morning's date, so an equal start and end date cannot cover one.
func (e *Extractor) SleepAnalysis(ctx context.Context, startDate, endDate, credential string) (string, error) {
	if startDate == endDate {
		return MsgSingleDayRange, nil
	}

	raw, err := e.devices.SleepPeriods(ctx, startDate, endDate, credential)
	if err != nil {
		return "", err
	}

	result := Validate(raw, SourceWearable, LevelAnalysis)
	if !result.Basic {
		return MsgNoSleepData, nil
	}

	var envelope struct {
		Data []SleepPeriod `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return MsgNoSleepData, nil
	}

	record := BuildAnalysisRecord(envelope.Data[0], *result.Analysis)
	encoded, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode sleep analysis: %w", err)
	}
	return string(encoded), nil
}

// BuildAnalysisRecord assembles the analysis for one sleep period, honoring the
// validator's per-family availability flags.
func BuildAnalysisRecord(period SleepPeriod, avail Availability) AnalysisRecord {
	record := AnalysisRecord{
		Day:          period.Day,
		BedtimeStart: period.BedtimeStart,
		BedtimeEnd:   period.BedtimeEnd,
		Readiness:    period.Readiness,
		Durations: DurationStrings{
			TotalSleep: formatDuration(period.TotalSleepDuration),
			TimeInBed:  formatDuration(period.TimeInBed),
			RemSleep:   formatDuration(period.RemSleepDuration),
			LightSleep: formatDuration(period.LightSleepDuration),
			DeepSleep:  formatDuration(period.DeepSleepDuration),
			AwakeTime:  formatDuration(period.AwakeTime),
		},
	}

	if avail.HeartRate && period.HeartRate != nil {
		record.HeartRate = seriesStats(*period.AverageHeartRate, period.HeartRate.Items)
	}
	if avail.HRV && period.HRV != nil {
		record.HRV = seriesStats(*period.AverageHRV, period.HRV.Items)
	}
	if avail.Movement {
		record.Movement = MovementBreakdown(period.Movement30Sec)
	}

	return record
}

// MovementBreakdown maps each time-bucket code to its named state and reports
// the fraction of the night spent in each. Fractions over the recognized
// buckets sum to 1.0.
func MovementBreakdown(codes string) map[string]float64 {
	counts := map[string]int{
		movementStates[movementNoMotion]: 0,
		movementStates[movementRestless]: 0,
		movementStates[movementTossing]:  0,
		movementStates[movementActive]:   0,
	}
	total := 0
	for i := 0; i < len(codes); i++ {
		state, ok := movementStates[codes[i]]
		if !ok {
			continue
		}
		counts[state]++
		total++
	}

	fractions := make(map[string]float64, len(counts))
	for state, count := range counts {
		if total == 0 {
			fractions[state] = 0
			continue
		}
		fractions[state] = float64(count) / float64(total)
	}
	return fractions
}

// AggregateHeartRate computes overall max and min plus per-source means over a
// set of bpm readings. Every output is nil for an empty reading set.
func AggregateHeartRate(samples []HeartRateSample) HeartRateStats {
	if len(samples) == 0 {
		return HeartRateStats{}
	}

	maxBPM := samples[0].BPM
	minBPM := samples[0].BPM
	var workoutSum, otherSum float64
	var workoutCount, otherCount int

	for _, sample := range samples {
		if sample.BPM > maxBPM {
			maxBPM = sample.BPM
		}
		if sample.BPM < minBPM {
			minBPM = sample.BPM
		}
		if sample.Source == "workout" {
			workoutSum += sample.BPM
			workoutCount++
		} else {
			otherSum += sample.BPM
			otherCount++
		}
	}

	stats := HeartRateStats{
		MaxBPM: &maxBPM,
		MinBPM: &minBPM,
	}
	if workoutCount > 0 {
		mean := workoutSum / float64(workoutCount)
		stats.AverageBPMWorkout = &mean
	}
	if otherCount > 0 {
		mean := otherSum / float64(otherCount)
		stats.AverageBPMNonWorkout = &mean
	}
	return stats
}

func seriesStats(average float64, items []*float64) *RangeStats {
	stats := &RangeStats{Average: average}
	seen := false
	for _, item := range items {
		if item == nil {
			continue
		}
		if !seen || *item < stats.Min {
			stats.Min = *item
		}
		if !seen || *item > stats.Max {
			stats.Max = *item
		}
		seen = true
	}
	return stats
}

// formatDuration renders seconds as "H hours and M minutes" using floor
// division for hours and the remainder for minutes.
func formatDuration(seconds *int) string {
	if seconds == nil {
		return "null"
	}
	hours := *seconds / 3600
	minutes := (*seconds % 3600) / 60
	return fmt.Sprintf("%d hours and %d minutes", hours, minutes)
}

func formatOptionalInt(value *int) string {
	if value == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *value)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return "null"
	}
	return fmt.Sprintf("%.1f", *value)
}

func formatRawObject(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
