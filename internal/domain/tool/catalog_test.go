package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/tool"
)

type fakeDeviceClient struct {
	dailySleepFn   func(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
	dailyStressFn  func(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
	heartRateFn    func(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
	sleepPeriodsFn func(ctx context.Context, startDate, endDate, credential string) ([]byte, error)
}

func (f *fakeDeviceClient) DailySleep(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return f.dailySleepFn(ctx, startDate, endDate, credential)
}

func (f *fakeDeviceClient) DailyStress(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return f.dailyStressFn(ctx, startDate, endDate, credential)
}

func (f *fakeDeviceClient) HeartRate(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return f.heartRateFn(ctx, startDate, endDate, credential)
}

func (f *fakeDeviceClient) SleepPeriods(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return f.sleepPeriodsFn(ctx, startDate, endDate, credential)
}

type fakeEmbedder struct {
	embedFn func(ctx context.Context, query string) ([]float64, error)
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return f.embedFn(ctx, query)
}

type fakeIndex struct {
	queryFn func(ctx context.Context, partition knowledge.Partition, vector []float64, topK int) ([]knowledge.Hit, error)
}

func (f *fakeIndex) Query(ctx context.Context, partition knowledge.Partition, vector []float64, topK int) ([]knowledge.Hit, error) {
	return f.queryFn(ctx, partition, vector, topK)
}

func newCatalog(devices *fakeDeviceClient, index *fakeIndex) *tool.Catalog {
	embedder := &fakeEmbedder{
		embedFn: func(context.Context, string) ([]float64, error) {
			return []float64{0.1, 0.2}, nil
		},
	}
	if index == nil {
		index = &fakeIndex{
			queryFn: func(context.Context, knowledge.Partition, []float64, int) ([]knowledge.Hit, error) {
				return nil, nil
			},
		}
	}
	extractor := metric.NewExtractor(devices, zerolog.Nop())
	retriever := knowledge.NewRetriever(embedder, index, 3, zerolog.Nop())
	return tool.NewCatalog(extractor, retriever, "podcast-transcripts", "medical-reference", zerolog.Nop())
}

func deviceArgs(start, end, key string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{
		"start_date": start,
		"end_date":   end,
		"user_key":   key,
	})
	return raw
}

func TestCatalog_Dispatch_SleepData(t *testing.T) {
	var gotCredential string
	devices := &fakeDeviceClient{
		dailySleepFn: func(_ context.Context, _, _, credential string) ([]byte, error) {
			gotCredential = credential
			return []byte(`{"data":[{"day":"2025-10-03","score":71,"contributors":{"deep_sleep":80}}]}`), nil
		},
	}
	catalog := newCatalog(devices, nil)

	result := catalog.Dispatch(context.Background(), tool.Call{
		ID:        "call_1",
		Name:      tool.NameSleepData,
		Arguments: deviceArgs("2025-10-03", "2025-10-04", "token-abc"),
	})

	if result.IsError {
		t.Fatalf("Dispatch() flagged error: %q", result.Content)
	}
	if result.CallID != "call_1" || result.ToolName != tool.NameSleepData {
		t.Errorf("Dispatch() identity = %q/%q, want call_1/get_sleep_data", result.CallID, result.ToolName)
	}
	if gotCredential != "token-abc" {
		t.Errorf("credential passed to device client = %q, want token-abc", gotCredential)
	}
	if !strings.HasPrefix(result.Content, "Score: 71") {
		t.Errorf("Dispatch() content = %q, want sleep summary line", result.Content)
	}
}

func TestCatalog_Dispatch_InvalidArguments(t *testing.T) {
	catalog := newCatalog(&fakeDeviceClient{}, nil)

	tests := []struct {
		name string
		args json.RawMessage
	}{
		{name: "bad start date", args: deviceArgs("03-10-2025", "2025-10-04", "token")},
		{name: "bad end date", args: deviceArgs("2025-10-03", "tomorrow", "token")},
		{name: "missing credential", args: deviceArgs("2025-10-03", "2025-10-04", "")},
		{name: "malformed json", args: json.RawMessage(`{"start_date":`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := catalog.Dispatch(context.Background(), tool.Call{
				ID:        "call_1",
				Name:      tool.NameSleepData,
				Arguments: tt.args,
			})
			if !result.IsError {
				t.Fatalf("Dispatch() accepted invalid arguments, content = %q", result.Content)
			}
			if !strings.Contains(result.Content, "invalid tool arguments") {
				t.Errorf("Dispatch() content = %q, want invalid-arguments diagnostic", result.Content)
			}
		})
	}
}

func TestCatalog_Dispatch_UnknownTool(t *testing.T) {
	catalog := newCatalog(&fakeDeviceClient{}, nil)

	result := catalog.Dispatch(context.Background(), tool.Call{
		ID:        "call_1",
		Name:      "get_blood_pressure",
		Arguments: json.RawMessage(`{}`),
	})
	if !result.IsError {
		t.Fatal("Dispatch() accepted unknown tool")
	}
	if !strings.Contains(result.Content, "unknown tool") {
		t.Errorf("Dispatch() content = %q, want unknown-tool diagnostic", result.Content)
	}
}

func TestCatalog_Dispatch_DeviceOutage(t *testing.T) {
	devices := &fakeDeviceClient{
		heartRateFn: func(context.Context, string, string, string) ([]byte, error) {
			return nil, metric.ErrDeviceUnavailable
		},
	}
	catalog := newCatalog(devices, nil)

	result := catalog.Dispatch(context.Background(), tool.Call{
		ID:        "call_1",
		Name:      tool.NameHeartRateData,
		Arguments: deviceArgs("2025-10-03", "2025-10-04", "token"),
	})
	if !result.IsError {
		t.Fatal("Dispatch() did not flag device outage")
	}
	if result.Content != metric.ErrDeviceUnavailable.Error() {
		t.Errorf("Dispatch() content = %q, want %q", result.Content, metric.ErrDeviceUnavailable.Error())
	}
}

func TestCatalog_Dispatch_KnowledgeOutage(t *testing.T) {
	index := &fakeIndex{
		queryFn: func(context.Context, knowledge.Partition, []float64, int) ([]knowledge.Hit, error) {
			return nil, errors.New("connection refused")
		},
	}
	catalog := newCatalog(&fakeDeviceClient{}, index)

	result := catalog.Dispatch(context.Background(), tool.Call{
		ID:        "call_1",
		Name:      tool.NamePodcastInsight,
		Arguments: json.RawMessage(`{"query":"caffeine and sleep"}`),
	})
	if !result.IsError {
		t.Fatal("Dispatch() did not flag knowledge outage")
	}
	if result.Content != knowledge.ErrBackendUnavailable.Error() {
		t.Errorf("Dispatch() content = %q, want %q", result.Content, knowledge.ErrBackendUnavailable.Error())
	}
	if strings.Contains(result.Content, "connection refused") {
		t.Errorf("Dispatch() leaked backend detail: %q", result.Content)
	}
}

func TestCatalog_Dispatch_PartitionRouting(t *testing.T) {
	var gotPartitions []knowledge.Partition
	index := &fakeIndex{
		queryFn: func(_ context.Context, partition knowledge.Partition, _ []float64, _ int) ([]knowledge.Hit, error) {
			gotPartitions = append(gotPartitions, partition)
			return []knowledge.Hit{{Source: "src", Text: "text", Similarity: 0.9}}, nil
		},
	}
	catalog := newCatalog(&fakeDeviceClient{}, index)

	for _, name := range []tool.Name{tool.NamePodcastInsight, tool.NameMedicalInsight} {
		result := catalog.Dispatch(context.Background(), tool.Call{
			ID:        "call_1",
			Name:      name,
			Arguments: json.RawMessage(`{"query":"magnesium"}`),
		})
		if result.IsError {
			t.Fatalf("Dispatch(%s) flagged error: %q", name, result.Content)
		}
		if result.Content != "Source: src, Text: text, Similarity: 0.9" {
			t.Errorf("Dispatch(%s) content = %q", name, result.Content)
		}
	}

	want := []knowledge.Partition{"podcast-transcripts", "medical-reference"}
	if len(gotPartitions) != 2 || gotPartitions[0] != want[0] || gotPartitions[1] != want[1] {
		t.Errorf("partitions queried = %v, want %v", gotPartitions, want)
	}
}

func TestCatalog_Dispatch_EmptyRetrievalResult(t *testing.T) {
	catalog := newCatalog(&fakeDeviceClient{}, nil)

	result := catalog.Dispatch(context.Background(), tool.Call{
		ID:        "call_1",
		Name:      tool.NameMedicalInsight,
		Arguments: json.RawMessage(`{"query":"obscure topic"}`),
	})
	if result.IsError {
		t.Fatalf("Dispatch() flagged error for empty result: %q", result.Content)
	}
	if result.Content != "No relevant passages found for this query" {
		t.Errorf("Dispatch() content = %q", result.Content)
	}
}

func TestCatalog_Definitions(t *testing.T) {
	catalog := newCatalog(&fakeDeviceClient{}, nil)

	definitions := catalog.Definitions()
	if len(definitions) != 6 {
		t.Fatalf("Definitions() returned %d tools, want 6", len(definitions))
	}

	byName := map[string]bool{}
	for _, def := range definitions {
		if def.Type != "function" {
			t.Errorf("definition %q type = %q, want function", def.Function.Name, def.Type)
		}
		byName[def.Function.Name] = true
	}

	for _, name := range []tool.Name{
		tool.NameSleepData, tool.NameStressData, tool.NameHeartRateData,
		tool.NameSleepAnalysis, tool.NamePodcastInsight, tool.NameMedicalInsight,
	} {
		if !byName[string(name)] {
			t.Errorf("Definitions() missing %s", name)
		}
	}
}

func TestDeviceRangeArgs_Validate(t *testing.T) {
	valid := tool.DeviceRangeArgs{StartDate: "2025-10-03", EndDate: "2025-10-04", Credential: "token"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	invalid := tool.DeviceRangeArgs{StartDate: "2025/10/03", EndDate: "2025-10-04", Credential: "token"}
	if err := invalid.Validate(); err == nil {
		t.Error("Validate() accepted slash-separated date")
	}
}

func TestResult_ToMessage(t *testing.T) {
	result := tool.Result{CallID: "call_9", ToolName: tool.NameStressData, Content: "payload"}
	msg := result.ToMessage()

	if msg.Role != "tool" {
		t.Errorf("ToMessage().Role = %q, want tool", msg.Role)
	}
	if msg.ToolCallID == nil || *msg.ToolCallID != "call_9" {
		t.Errorf("ToMessage().ToolCallID = %v, want call_9", msg.ToolCallID)
	}
	if msg.Name != "get_stress_data" {
		t.Errorf("ToMessage().Name = %q, want get_stress_data", msg.Name)
	}
	if msg.Content != "payload" {
		t.Errorf("ToMessage().Content = %q, want payload", msg.Content)
	}
}
