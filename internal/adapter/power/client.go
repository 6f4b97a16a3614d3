// Package power implements the NASA POWER hourly point data client.
//
// POWER serves reanalysis meteorology keyed by UTC hour. The client fetches
// the four parameters the risk engine consumes (T2M, RH2M, WS10M,
// PRECTOTCORR), retries transient failures with exponential backoff, and
// trips a circuit breaker when the upstream degrades.
package power

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/climate-risk-service/internal/observability"
)

const (
	hourlyPointPath = "/api/temporal/hourly/point"

	// POWER encodes missing values as -999. Comparisons leave headroom for
	// float formatting drift in the JSON payload.
	missingSentinel = -998.0

	baseBackoff = time.Second
	maxBackoff  = 10 * time.Second
)

// Observation is one hourly record from the POWER archive. PrecipMissing is
// set when PRECTOTCORR carried the missing sentinel; the collector decides
// the substitution policy.
type Observation struct {
	TimestampUTC        time.Time
	TemperatureC        float64
	RelativeHumidityPct float64
	WindSpeedMS         float64
	PrecipRateMMPerH    float64
	PrecipMissing       bool
}

// Client fetches hourly point data from the NASA POWER API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a POWER API client. retries is the number of additional
// attempts after the first.
func NewClient(baseURL string, timeout time.Duration, retries int, logger *slog.Logger, metrics *observability.Metrics) *Client {
	settings := gobreaker.Settings{
		Name:    "nasa-power",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "client", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		backoff:    baseBackoff,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
		metrics:    metrics,
	}
}

// HourlyRange fetches hourly observations for a point over [start, end]
// (inclusive, UTC dates). Hours whose temperature, humidity, or wind carry
// the missing sentinel are dropped; missing precipitation is kept and marked.
func (c *Client) HourlyRange(ctx context.Context, lat, lon float64, start, end time.Time) ([]Observation, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid latitude %g: must be -90 to 90", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid longitude %g: must be -180 to 180", lon)
	}
	if start.After(end) {
		return nil, fmt.Errorf("start %s after end %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	params := url.Values{
		"parameters":    {"T2M,RH2M,WS10M,PRECTOTCORR"},
		"community":     {"AG"},
		"latitude":      {fmt.Sprintf("%g", lat)},
		"longitude":     {fmt.Sprintf("%g", lon)},
		"start":         {start.Format("20060102")},
		"end":           {end.Format("20060102")},
		"format":        {"JSON"},
		"time-standard": {"UTC"},
	}
	fullURL := c.baseURL + hourlyPointPath + "?" + params.Encode()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, fullURL)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			c.metrics.PowerRequests.WithLabelValues("breaker_open").Inc()
		}
		return nil, err
	}

	return parseHourly(result.([]byte))
}

func (c *Client) getWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	backoff := c.backoff
	if backoff <= 0 {
		backoff = baseBackoff
	}

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying POWER request", "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		body, retryable, err := c.doRequest(ctx, fullURL)
		if err == nil {
			c.metrics.PowerRequests.WithLabelValues("success").Inc()
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	c.metrics.PowerRequests.WithLabelValues("error").Inc()
	return nil, fmt.Errorf("POWER request failed: %w", lastErr)
}

// doRequest performs a single attempt. The second return reports whether the
// failure is worth retrying; client errors other than 429 are not.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "climate-risk-service/1.0")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()
	c.metrics.PowerAPIDuration.Observe(time.Since(started).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("POWER API status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}
	return body, false, nil
}

// POWER API response types. Hourly series are keyed "YYYYMMDDHH" in UTC.

type response struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
	Errors []string `json:"errors"`
}

func parseHourly(body []byte) ([]Observation, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("POWER API error: %s", resp.Errors[0])
	}

	temps := resp.Properties.Parameter["T2M"]
	if temps == nil {
		return nil, fmt.Errorf("POWER response missing T2M series")
	}
	humidity := resp.Properties.Parameter["RH2M"]
	wind := resp.Properties.Parameter["WS10M"]
	precip := resp.Properties.Parameter["PRECTOTCORR"]

	keys := make([]string, 0, len(temps))
	for k := range temps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	observations := make([]Observation, 0, len(keys))
	for _, key := range keys {
		ts, err := time.ParseInLocation("2006010215", key, time.UTC)
		if err != nil {
			continue
		}

		obs := Observation{
			TimestampUTC:        ts,
			TemperatureC:        temps[key],
			RelativeHumidityPct: lookup(humidity, key),
			WindSpeedMS:         lookup(wind, key),
		}
		if isMissing(obs.TemperatureC) || isMissing(obs.RelativeHumidityPct) || isMissing(obs.WindSpeedMS) {
			continue
		}

		p, ok := precip[key]
		if !ok || isMissing(p) {
			obs.PrecipMissing = true
		} else {
			obs.PrecipRateMMPerH = p
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

func lookup(series map[string]float64, key string) float64 {
	if series == nil {
		return missingSentinel - 1
	}
	v, ok := series[key]
	if !ok {
		return missingSentinel - 1
	}
	return v
}

func isMissing(v float64) bool {
	return v <= missingSentinel
}
