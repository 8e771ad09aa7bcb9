package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Advisor-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Agent reasoning turns per request
	AgentTurns = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "agent_turns",
			Help:      "Reasoning turns consumed per agent run",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	// Tool call counters
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations requested by the reasoning loop",
		},
		[]string{"tool_name", "status"},
	)

	// Tool duration histogram
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	// Device API calls by resource family
	DeviceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "device_calls_total",
			Help:      "Wearable device API calls",
		},
		[]string{"resource", "status"},
	)

	// Knowledge retrievals by partition
	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "retrievals_total",
			Help:      "Semantic index retrievals",
		},
		[]string{"partition", "status"},
	)

	// Interaction log queue depth
	LogQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pulse",
			Subsystem: "advisor_api",
			Name:      "log_queue_depth",
			Help:      "Pending interaction logs awaiting persistence",
		},
	)
)
