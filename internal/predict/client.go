// Package predict is a client for the external crime-rate prediction API.
// The API itself is an opaque service; this package only speaks its wire
// format and never half-trusts a response: every call yields either a fully
// decoded prediction or a typed error.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// Request is the input to the prediction endpoint.
type Request struct {
	City              string `json:"city"`
	AreaType          string `json:"area_type"`
	PopulationDensity int    `json:"population_density"`
	TimeOfDay         string `json:"time_of_day"`
	Month             int    `json:"month"`
	DayOfWeek         int    `json:"day_of_week"`
}

// Factors breaks the predicted rate down into named contributions.
type Factors struct {
	AreaTypeImpact   float64 `json:"area_type_impact"`
	PopulationImpact float64 `json:"population_impact"`
	TimeImpact       float64 `json:"time_impact"`
	SeasonalImpact   float64 `json:"seasonal_impact"`
	WeekendImpact    float64 `json:"weekend_impact"`
}

// Prediction is a successful response from the prediction endpoint.
type Prediction struct {
	Success   bool    `json:"success"`
	City      string  `json:"city"`
	CrimeRate float64 `json:"crime_rate"`
	RiskLevel string  `json:"risk_level"`
	RiskColor string  `json:"risk_color"`
	Factors   Factors `json:"factors"`
	ErrorMsg  string  `json:"error,omitempty"`
}

// Error is an application-level failure reported by the prediction API, as
// opposed to the API being unreachable.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the prediction API.
type Client struct {
	http *resty.Client
}

// New creates a prediction client for the given base URL.
func New(baseURL string) *Client {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout)
	return &Client{http: cli}
}

// BaseURL returns the configured endpoint, for user-facing guidance messages.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Ping checks that the API root answers. It reports reachability only and is
// never a precondition for making a prediction.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("prediction API not reachable at %s: %w", c.BaseURL(), err)
	}
	if resp.IsError() {
		return &Error{StatusCode: resp.StatusCode(), Message: fmt.Sprintf("prediction API returned status %d", resp.StatusCode())}
	}
	return nil
}

// Predict submits the request and decodes the response defensively: a non-2xx
// status or a non-JSON body becomes a typed error carrying a truncated body
// excerpt, never a partially decoded prediction.
func (c *Client) Predict(ctx context.Context, req Request) (*Prediction, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(req).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("prediction request: %w. Make sure the backend server is running on %s", err, c.BaseURL())
	}

	body := resp.Body()
	if resp.IsError() {
		var failure struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &failure); jsonErr == nil && failure.Error != "" {
			return nil, &Error{StatusCode: resp.StatusCode(), Message: failure.Error}
		}
		return nil, &Error{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("server error: %d - %s", resp.StatusCode(), truncate(string(body), 100)),
		}
	}

	var pred Prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return nil, &Error{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("invalid JSON response: %s", truncate(string(body), 100)),
		}
	}
	if !pred.Success {
		msg := pred.ErrorMsg
		if msg == "" {
			msg = "prediction failed"
		}
		return nil, &Error{StatusCode: resp.StatusCode(), Message: msg}
	}

	return &pred, nil
}

// DensityForArea returns the population density preset for an area type, and
// whether the area type has one.
func DensityForArea(areaType string) (int, bool) {
	switch areaType {
	case "urban":
		return 8000, true
	case "suburban":
		return 3000, true
	case "rural":
		return 500, true
	default:
		return 0, false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
