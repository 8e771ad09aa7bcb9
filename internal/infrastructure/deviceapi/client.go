package deviceapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/retry"
	"pulse-server/services/advisor-api/internal/infrastructure/metrics"
)

// Resource paths on the wearable API. Heart rate uses datetime-bounded
// parameters; the others take plain dates.
const (
	dailySleepPath   = "/usercollection/daily_sleep"
	dailyStressPath  = "/usercollection/daily_stress"
	heartRatePath    = "/usercollection/heartrate"
	sleepPeriodsPath = "/usercollection/sleep"
)

// Client fetches metric envelopes from the wearable device API. It implements
// metric.DeviceClient and owns the bounded-retry policy for flaky calls.
type Client struct {
	httpClient *resty.Client
	policy     retry.Policy
	log        zerolog.Logger
}

// NewClient creates a Resty-backed device API client.
func NewClient(baseURL string, policy retry.Policy, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
		policy: policy,
		log:    log.With().Str("component", "device-client").Logger(),
	}
}

// DailySleep fetches the daily sleep aggregates for the range.
func (c *Client) DailySleep(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return c.get(ctx, "daily_sleep", dailySleepPath, dateParams(startDate, endDate), credential)
}

// DailyStress fetches the daily stress aggregates for the range.
func (c *Client) DailyStress(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return c.get(ctx, "daily_stress", dailyStressPath, dateParams(startDate, endDate), credential)
}

// HeartRate fetches raw bpm readings for the range.
func (c *Client) HeartRate(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	params := map[string]string{
		"start_datetime": startDate + "T00:00:00+00:00",
		"end_datetime":   endDate + "T23:59:59+00:00",
	}
	return c.get(ctx, "heartrate", heartRatePath, params, credential)
}

// SleepPeriods fetches the detailed sleep periods for the range.
func (c *Client) SleepPeriods(ctx context.Context, startDate, endDate, credential string) ([]byte, error) {
	return c.get(ctx, "sleep", sleepPeriodsPath, dateParams(startDate, endDate), credential)
}

func dateParams(startDate, endDate string) map[string]string {
	return map[string]string{
		"start_date": startDate,
		"end_date":   endDate,
	}
}

// get executes the request under the retry policy. Transport failures and
// server errors are retried; once retries are exhausted the caller sees
// metric.ErrDeviceUnavailable with no endpoint details attached. Client errors
// and empty envelopes pass through so the validator can fail closed on them.
func (c *Client) get(ctx context.Context, resource, path string, params map[string]string, credential string) ([]byte, error) {
	body, err := retry.ExecuteWithResult(ctx, c.policy, func(ctx context.Context, attempt int) ([]byte, error) {
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetAuthToken(credential).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			c.log.Warn().Err(err).Str("resource", resource).Int("attempt", attempt).Msg("device request failed")
			return nil, err
		}
		if resp.StatusCode() >= 500 {
			c.log.Warn().Int("status", resp.StatusCode()).Str("resource", resource).Int("attempt", attempt).Msg("device server error")
			return nil, fmt.Errorf("device api status %d", resp.StatusCode())
		}
		return resp.Body(), nil
	})
	if err != nil {
		metrics.DeviceCallsTotal.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("%w: %s", metric.ErrDeviceUnavailable, resource)
	}

	metrics.DeviceCallsTotal.WithLabelValues(resource, "ok").Inc()
	return body, nil
}

var _ metric.DeviceClient = (*Client)(nil)
