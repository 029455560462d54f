package taxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=client.go -destination=mock/client_mock.go -package=taxapimock

// Client talks to an external tax rate provider. Implementations harus
// mengembalikan error, bukan panic: pemanggil selalu punya jalur fallback.
type Client interface {
	CheckAvailability(ctx context.Context, country, state string) (Availability, error)
	FederalRates(ctx context.Context, country string, annualIncome float64, filingStatus string) (*RateResult, error)
	StateRates(ctx context.Context, country, state string, annualIncome float64, filingStatus string) (*RateResult, error)
	Calculate(ctx context.Context, country, state string, req Request) (*CalculationResult, error)
}

const defaultTimeout = 5 * time.Second

type httpClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds the default client. baseURL tanpa trailing slash.
func NewHTTPClient(baseURL, apiKey string, logger ...*zap.Logger) Client {
	lg := zap.L().Named("taxapi")
	if len(logger) > 0 && logger[0] != nil {
		lg = logger[0]
	}
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: defaultTimeout},
		logger:  lg,
	}
}

func (c *httpClient) CheckAvailability(ctx context.Context, country, state string) (Availability, error) {
	q := url.Values{}
	q.Set("country", country)
	if state != "" {
		q.Set("state", state)
	}
	var out Availability
	if err := c.getJSON(ctx, "/v1/availability?"+q.Encode(), &out); err != nil {
		return Availability{}, err
	}
	return out, nil
}

func (c *httpClient) FederalRates(ctx context.Context, country string, annualIncome float64, filingStatus string) (*RateResult, error) {
	body := map[string]any{
		"country":       country,
		"annual_income": annualIncome,
		"filing_status": filingStatus,
		"year":          time.Now().Year(),
	}
	var out RateResult
	if err := c.postJSON(ctx, "/v1/rates/federal", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) StateRates(ctx context.Context, country, state string, annualIncome float64, filingStatus string) (*RateResult, error) {
	body := map[string]any{
		"country":       country,
		"state":         state,
		"annual_income": annualIncome,
		"filing_status": filingStatus,
		"year":          time.Now().Year(),
	}
	var out RateResult
	if err := c.postJSON(ctx, "/v1/rates/state", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Calculate(ctx context.Context, country, state string, req Request) (*CalculationResult, error) {
	body := map[string]any{
		"country": country,
		"state":   state,
		"request": req,
	}
	var out CalculationResult
	if err := c.postJSON(ctx, "/v1/calculate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *httpClient) postJSON(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("tax api unreachable", zap.String("url", req.URL.Path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain supaya koneksi bisa direuse
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("tax api non-200", zap.String("url", req.URL.Path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("taxapi: unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
