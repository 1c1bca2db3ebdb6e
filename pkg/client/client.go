package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a Go SDK for the burnout-engine API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new burnout-engine client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// EmployeeMetrics is the latest observation of one employee
type EmployeeMetrics struct {
	EmployeeID        string    `json:"employee_id"`
	Name              string    `json:"name"`
	Department        string    `json:"department"`
	Role              string    `json:"role"`
	Date              time.Time `json:"date"`
	BurnoutRisk       float64   `json:"burnout_risk_index"`
	BurnoutCategory   string    `json:"burnout_category"`
	ProductivityIndex float64   `json:"productivity_index"`
	WellnessIndex     float64   `json:"wellness_index"`
	WorkloadIndex     float64   `json:"workload_index"`
	Meetings          int       `json:"num_meetings"`
	SleepHours        float64   `json:"sleep_hours"`
	PredictedCategory string    `json:"prediction_category,omitempty"`
	ProbaHigh         float64   `json:"prediction_proba_high"`
}

// WorkforceSummary aggregates the latest observations across all employees
type WorkforceSummary struct {
	TotalEmployees  int       `json:"total_employees"`
	AvgBurnoutRisk  float64   `json:"avg_burnout_risk"`
	AvgProductivity float64   `json:"avg_productivity"`
	AvgWellness     float64   `json:"avg_wellness"`
	AvgMeetings     float64   `json:"avg_meetings"`
	HighRiskCount   int       `json:"high_risk_count"`
	SnapshotID      string    `json:"snapshot_id"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// DepartmentRollup aggregates the latest observations of one department
type DepartmentRollup struct {
	Department      string  `json:"department"`
	Employees       int     `json:"employees"`
	AvgBurnoutRisk  float64 `json:"avg_burnout_risk"`
	AvgProductivity float64 `json:"avg_productivity"`
	HighRiskCount   int     `json:"high_risk_count"`
}

// Snapshot describes one generated dataset
type Snapshot struct {
	ID          string    `json:"snapshot_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Employees   int       `json:"employees"`
	Days        int       `json:"days"`
	Rows        int       `json:"rows"`
	Seed        int64     `json:"seed"`
}

// ModelInfo is the metadata of a trained classifier
type ModelInfo struct {
	ID              string    `json:"model_id"`
	TrainedAt       time.Time `json:"trained_at"`
	Classes         []string  `json:"classes"`
	FeatureColumns  []string  `json:"feature_columns"`
	HoldoutAccuracy float64   `json:"holdout_accuracy"`
	TrainingRows    int       `json:"training_rows"`
	Source          string    `json:"source"`
}

// RefreshResult is returned after a dataset rebuild and retrain
type RefreshResult struct {
	Snapshot Snapshot  `json:"snapshot"`
	Model    ModelInfo `json:"model"`
}

// Employees retrieves the latest metrics for every employee
func (c *Client) Employees(ctx context.Context) ([]*EmployeeMetrics, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/employees", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Employees []*EmployeeMetrics `json:"employees"`
			Total     int                `json:"total"`
		} `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data.Employees, nil
}

// Summary retrieves the workforce-wide aggregate view
func (c *Client) Summary(ctx context.Context) (*WorkforceSummary, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/summary", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool              `json:"success"`
		Data    *WorkforceSummary `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// Departments retrieves per-department aggregates
func (c *Client) Departments(ctx context.Context) ([]*DepartmentRollup, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/departments", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Departments []*DepartmentRollup `json:"departments"`
			Total       int                 `json:"total"`
		} `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data.Departments, nil
}

// Refresh regenerates the dataset and retrains the model
func (c *Client) Refresh(ctx context.Context) (*RefreshResult, error) {
	resp, err := c.doRequest(ctx, "POST", "/api/v1/refresh", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool           `json:"success"`
		Data    *RefreshResult `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// Model retrieves the metadata of the currently served classifier
func (c *Client) Model(ctx context.Context) (*ModelInfo, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/model", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool       `json:"success"`
		Data    *ModelInfo `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// ExportDataset downloads the full engineered dataset as an xlsx workbook
func (c *Client) ExportDataset(ctx context.Context) ([]byte, error) {
	return c.doRequest(ctx, "GET", "/api/v1/dataset/export", nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, "GET", "/health", nil)
	return err
}

// Ready checks if the service can reach its dependencies
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.doRequest(ctx, "GET", "/ready", nil)
	return err
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
