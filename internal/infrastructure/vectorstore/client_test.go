package vectorstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/infrastructure/vectorstore"
)

func TestClient_Query(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"matches":[{"source":"episode-03","text":"deep sleep","score":0.91}]}`))
	}))
	defer server.Close()

	client := vectorstore.NewClient(server.URL + "/")
	hits, err := client.Query(context.Background(), "podcast-transcripts", []float64{0.1, 0.2}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if gotPath != "/query" {
		t.Errorf("path = %q, want /query", gotPath)
	}
	if gotBody["partition"] != "podcast-transcripts" {
		t.Errorf("partition = %v", gotBody["partition"])
	}
	if gotBody["top_k"] != float64(3) {
		t.Errorf("top_k = %v, want 3", gotBody["top_k"])
	}

	want := []knowledge.Hit{{Source: "episode-03", Text: "deep sleep", Similarity: 0.91}}
	if len(hits) != 1 || hits[0] != want[0] {
		t.Errorf("hits = %+v, want %+v", hits, want)
	}
}

func TestClient_Query_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := vectorstore.NewClient(server.URL)
	if _, err := client.Query(context.Background(), "medical-reference", []float64{0.1}, 3); err == nil {
		t.Fatal("Query() error = nil, want error on 500")
	}
}
