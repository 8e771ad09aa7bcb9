package metric

import "encoding/json"

// Level selects how deep a validation pass inspects the device response.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelAnalysis Level = "analysis"
)

// Source identifies the producer of the raw response being validated.
type Source string

const (
	SourceWearable Source = "wearable"
)

// Availability holds the per-family analysis availability flags. Each family is
// evaluated independently: a missing heart rate family does not block hrv.
type Availability struct {
	HeartRate bool `json:"heart_rate"`
	HRV       bool `json:"hrv"`
	Movement  bool `json:"movement"`
}

// Result is the outcome of a validation pass. Analysis is only populated when
// the basic check passed and the analysis level was requested.
type Result struct {
	Basic    bool          `json:"basic"`
	Analysis *Availability `json:"analysis,omitempty"`
}

// Validate checks a raw device API response for structural completeness and,
// at the analysis level, semantic availability of each metric family. It is a
// pure function over its input: malformed payloads degrade to a failed basic
// check, never a panic or an error.
func Validate(raw []byte, source Source, level Level) Result {
	if source != SourceWearable {
		return Result{Basic: true}
	}

	first, ok := firstDataElement(raw)
	if !ok {
		return Result{Basic: false}
	}

	if level != LevelAnalysis {
		return Result{Basic: true}
	}

	return Result{Basic: true, Analysis: analysisAvailability(first)}
}

// firstDataElement extracts the first entry of the well-known data collection.
// Any missing key, null, or empty collection fails closed.
func firstDataElement(raw []byte) (json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Data) == 0 {
		return nil, false
	}
	return envelope.Data[0], true
}

func analysisAvailability(first json.RawMessage) *Availability {
	var probe struct {
		AverageHeartRate *float64 `json:"average_heart_rate"`
		HeartRate        *struct {
			Items []*float64 `json:"items"`
		} `json:"heart_rate"`
		AverageHRV *float64 `json:"average_hrv"`
		HRV        *struct {
			Items []*float64 `json:"items"`
		} `json:"hrv"`
		Movement30Sec *string `json:"movement_30_sec"`
	}

	avail := &Availability{}
	if err := json.Unmarshal(first, &probe); err != nil {
		return avail
	}

	// The average field is the entry point for each family: it must be present,
	// non-null, and strictly positive, and the companion item list must exist.
	avail.HeartRate = probe.AverageHeartRate != nil &&
		*probe.AverageHeartRate > 0 &&
		probe.HeartRate != nil &&
		probe.HeartRate.Items != nil

	avail.HRV = probe.AverageHRV != nil &&
		*probe.AverageHRV > 0 &&
		probe.HRV != nil &&
		probe.HRV.Items != nil

	avail.Movement = probe.Movement30Sec != nil

	return avail
}
