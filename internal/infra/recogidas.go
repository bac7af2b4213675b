package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RecogidasClient talks to the external harvest-collection service.
// Its JSON is treated as opaque: the caller passes it through to the
// frontend without reinterpreting it, so changes in the harvest
// service's schema never break this backend.
type RecogidasClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewRecogidasClient(baseURL string, breaker *CircuitBreaker) *RecogidasClient {
	return &RecogidasClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    breaker,
	}
}

// Breaker exposes the circuit state for the health endpoint.
func (c *RecogidasClient) Breaker() *CircuitBreaker { return c.breaker }

// Listar fetches the raw recogidas payload for a user. Returns
// ErrCircuitOpen without touching the network while the breaker is
// tripped.
func (c *RecogidasClient) Listar(ctx context.Context, usuario string) (json.RawMessage, error) {
	var payload json.RawMessage

	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/recogidas?usuario=%s", c.baseURL, usuario), nil)
		if err != nil {
			return fmt.Errorf("recogidas: create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("recogidas: service unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("recogidas: service returned %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("recogidas: read response: %w", err)
		}
		if !json.Valid(body) {
			return fmt.Errorf("recogidas: invalid JSON response")
		}
		payload = json.RawMessage(body)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}
