package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/domain/llm"
	"pulse-server/services/advisor-api/internal/domain/metric"
)

// Catalog is the fixed set of callable capabilities exposed to the reasoning
// loop. It is built once at orchestrator construction time and never mutated
// during a request.
type Catalog struct {
	extractor        *metric.Extractor
	retriever        *knowledge.Retriever
	podcastPartition knowledge.Partition
	medicalPartition knowledge.Partition
	log              zerolog.Logger
}

// NewCatalog wires the tool catalog.
func NewCatalog(
	extractor *metric.Extractor,
	retriever *knowledge.Retriever,
	podcastPartition knowledge.Partition,
	medicalPartition knowledge.Partition,
	log zerolog.Logger,
) *Catalog {
	return &Catalog{
		extractor:        extractor,
		retriever:        retriever,
		podcastPartition: podcastPartition,
		medicalPartition: medicalPartition,
		log:              log.With().Str("component", "tool-catalog").Logger(),
	}
}

// Dispatch executes one requested tool call. It never returns a program-level
// error: argument problems, missing data, and backend outages all come back as
// diagnostic content the model can reason over.
func (c *Catalog) Dispatch(ctx context.Context, call Call) Result {
	result := Result{CallID: call.ID, ToolName: call.Name}

	content, err := c.execute(ctx, call)
	if err != nil {
		result.IsError = true
		result.Content = diagnosticFor(err)
		c.log.Warn().Err(err).Str("tool", string(call.Name)).Msg("tool dispatch failed")
		return result
	}

	result.Content = content
	return result
}

func (c *Catalog) execute(ctx context.Context, call Call) (string, error) {
	switch call.Name {
	case NameSleepData:
		args, err := decodeDeviceArgs(call.Arguments)
		if err != nil {
			return "", err
		}
		return c.extractor.SleepSummary(ctx, args.StartDate, args.EndDate, args.Credential)

	case NameStressData:
		args, err := decodeDeviceArgs(call.Arguments)
		if err != nil {
			return "", err
		}
		return c.extractor.StressSummary(ctx, args.StartDate, args.EndDate, args.Credential)

	case NameHeartRateData:
		args, err := decodeDeviceArgs(call.Arguments)
		if err != nil {
			return "", err
		}
		return c.extractor.HeartRateSummary(ctx, args.StartDate, args.EndDate, args.Credential)

	case NameSleepAnalysis:
		args, err := decodeDeviceArgs(call.Arguments)
		if err != nil {
			return "", err
		}
		return c.extractor.SleepAnalysis(ctx, args.StartDate, args.EndDate, args.Credential)

	case NamePodcastInsight:
		return c.retrieve(ctx, call.Arguments, c.podcastPartition)

	case NameMedicalInsight:
		return c.retrieve(ctx, call.Arguments, c.medicalPartition)

	default:
		return "", fmt.Errorf("%w: %s", errUnknownTool, call.Name)
	}
}

func (c *Catalog) retrieve(ctx context.Context, rawArgs json.RawMessage, partition knowledge.Partition) (string, error) {
	var args QueryArgs
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidArguments, err)
	}
	if err := args.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidArguments, err)
	}

	hits, err := c.retriever.Retrieve(ctx, args.Query, partition)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "No relevant passages found for this query", nil
	}
	return knowledge.RenderHits(hits), nil
}

var (
	errUnknownTool      = errors.New("unknown tool")
	errInvalidArguments = errors.New("invalid tool arguments")
)

func decodeDeviceArgs(raw json.RawMessage) (DeviceRangeArgs, error) {
	var args DeviceRangeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("%w: %w", errInvalidArguments, err)
	}
	if err := args.Validate(); err != nil {
		return args, fmt.Errorf("%w: %w", errInvalidArguments, err)
	}
	return args, nil
}

// diagnosticFor maps an internal failure to conversational text with a fixed,
// non-leaking message per failure kind.
func diagnosticFor(err error) string {
	switch {
	case errors.Is(err, knowledge.ErrBackendUnavailable):
		return knowledge.ErrBackendUnavailable.Error()
	case errors.Is(err, metric.ErrDeviceUnavailable):
		return metric.ErrDeviceUnavailable.Error()
	case errors.Is(err, errInvalidArguments), errors.Is(err, errUnknownTool):
		return err.Error()
	default:
		return "tool execution failed"
	}
}

// Definitions returns the OpenAI compatible schema for every catalog tool.
func (c *Catalog) Definitions() []llm.ToolDefinition {
	deviceParams := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_date": map[string]interface{}{
				"type":        "string",
				"description": "Start date of the range, formatted YYYY-MM-DD",
			},
			"end_date": map[string]interface{}{
				"type":        "string",
				"description": "End date of the range, formatted YYYY-MM-DD",
			},
			"user_key": map[string]interface{}{
				"type":        "string",
				"description": "The user's device access token from the conversation context",
			},
		},
		"required": []string{"start_date", "end_date", "user_key"},
	}
	queryParams := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Free text query to search the knowledge base with",
			},
		},
		"required": []string{"query"},
	}

	definitions := []struct {
		name        Name
		description string
		params      map[string]interface{}
	}{
		{NameSleepData, "Fetch daily sleep scores and contributor breakdowns from the user's wearable for a date range.", deviceParams},
		{NameStressData, "Fetch daily stress and recovery summaries from the user's wearable for a date range.", deviceParams},
		{NameHeartRateData, "Fetch aggregated heart rate statistics (max, min, workout and non-workout averages) for a date range.", deviceParams},
		{NameSleepAnalysis, "Build a detailed sleep analysis (bedtime window, heart rate, HRV, movement breakdown, durations) for a multi-day range.", deviceParams},
		{NamePodcastInsight, "Search health podcast transcripts for passages relevant to the query. Cite the source when using this material.", queryParams},
		{NameMedicalInsight, "Search the medical reference corpus for passages relevant to the query. Cite the source when using this material.", queryParams},
	}

	out := make([]llm.ToolDefinition, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, llm.ToolDefinition{
			Type: "function",
			Function: llm.ToolFunctionSchema{
				Name:        string(def.name),
				Description: def.description,
				Parameters:  def.params,
			},
		})
	}
	return out
}
