package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "pulse-server/advisor-api"
)

// GetTracer returns the tracer for the advisor-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// AgentAttributes returns common attributes for agent run spans.
func AgentAttributes(userIdentity, logReference string, turns int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("agent.user_identity", userIdentity),
		attribute.String("agent.log_reference", logReference),
		attribute.Int("agent.turns", turns),
	}
}

// ToolAttributes returns common attributes for tool dispatch spans.
func ToolAttributes(toolName, callID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("tool.name", toolName),
		attribute.String("tool.call_id", callID),
	}
}
