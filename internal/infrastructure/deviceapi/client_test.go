package deviceapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/retry"
	"pulse-server/services/advisor-api/internal/infrastructure/deviceapi"
)

func fastPolicy(maxRetries int) retry.Policy {
	return retry.Policy{
		MaxRetries:      maxRetries,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}
}

func TestClient_DailySleep(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usercollection/daily_sleep" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("start_date"); got != "2025-10-03" {
			t.Errorf("start_date = %q", got)
		}
		if got := r.URL.Query().Get("end_date"); got != "2025-10-04" {
			t.Errorf("end_date = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"data":[{"day":"2025-10-03"}]}`))
	}))
	defer server.Close()

	client := deviceapi.NewClient(server.URL, fastPolicy(0), zerolog.Nop())

	body, err := client.DailySleep(context.Background(), "2025-10-03", "2025-10-04", "token-abc")
	if err != nil {
		t.Fatalf("DailySleep() error = %v", err)
	}
	if string(body) != `{"data":[{"day":"2025-10-03"}]}` {
		t.Errorf("body = %s", body)
	}
}

func TestClient_HeartRate_DatetimeBounds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usercollection/heartrate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("start_datetime"); got != "2025-10-03T00:00:00+00:00" {
			t.Errorf("start_datetime = %q", got)
		}
		if got := r.URL.Query().Get("end_datetime"); got != "2025-10-04T23:59:59+00:00" {
			t.Errorf("end_datetime = %q", got)
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := deviceapi.NewClient(server.URL, fastPolicy(0), zerolog.Nop())

	if _, err := client.HeartRate(context.Background(), "2025-10-03", "2025-10-04", "token"); err != nil {
		t.Fatalf("HeartRate() error = %v", err)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := deviceapi.NewClient(server.URL, fastPolicy(3), zerolog.Nop())

	if _, err := client.DailyStress(context.Background(), "2025-10-03", "2025-10-04", "token"); err != nil {
		t.Fatalf("DailyStress() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClient_ExhaustedRetriesReturnSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := deviceapi.NewClient(server.URL, fastPolicy(1), zerolog.Nop())

	_, err := client.SleepPeriods(context.Background(), "2025-10-03", "2025-10-04", "token")
	if !errors.Is(err, metric.ErrDeviceUnavailable) {
		t.Errorf("SleepPeriods() error = %v, want ErrDeviceUnavailable", err)
	}
}

func TestClient_ClientErrorsPassThrough(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid token"}`))
	}))
	defer server.Close()

	client := deviceapi.NewClient(server.URL, fastPolicy(3), zerolog.Nop())

	body, err := client.DailySleep(context.Background(), "2025-10-03", "2025-10-04", "bad-token")
	if err != nil {
		t.Fatalf("DailySleep() error = %v, want 4xx body passed through", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (client errors are not retried)", attempts)
	}
	if string(body) != `{"detail":"invalid token"}` {
		t.Errorf("body = %s", body)
	}
}
