package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

// Client consulta a API de rastreio da transportadora (canal de poll).
// O webhook é o canal primário; este client existe porque webhook é
// at-least-once mas não é garantido — o poll periódico cobre os buracos.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// trackingResponse é o envelope da API da transportadora.
type trackingResponse struct {
	Tracking string          `json:"tracking"`
	Events   []trackingEvent `json:"events"`
}

type trackingEvent struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Location   string    `json:"location"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Track busca o histórico de eventos de um código de rastreio.
func (c *Client) Track(ctx context.Context, carrierRef string) ([]domain.TrackingEvent, error) {
	url := fmt.Sprintf("%s/v2/tracking/%s", c.baseURL, carrierRef)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrShipmentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracking request returned status %d", resp.StatusCode)
	}

	var body trackingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode tracking response: %w", err)
	}

	events := make([]domain.TrackingEvent, 0, len(body.Events))
	for _, e := range body.Events {
		events = append(events, domain.TrackingEvent{
			Status:    e.Status,
			Message:   e.Message,
			Location:  e.Location,
			EventTime: e.OccurredAt,
			Source:    domain.EventSourcePoll,
		})
	}
	return events, nil
}
