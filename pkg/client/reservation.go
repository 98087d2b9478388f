package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"eventstay/pkg/model"
)

const (
	reservationsPath = "/api/v1/reservations"
	propertiesPath   = "/api/v1/properties"
)

// ReservationClient drives the reservation API over HTTP.
type ReservationClient struct {
	httpClient *HttpClient
}

func NewReservationClient(baseUrl string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ReservationClient) Create(body any) (*Response, error) {
	return c.httpClient.POST(reservationsPath, body)
}

func (c *ReservationClient) CreateWithKey(body any, idempotencyKey string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(reservationsPath, body, map[string]string{
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *ReservationClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(reservationsPath, rawBody)
}

func (c *ReservationClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET(reservationsPath + "/id/" + url.PathEscape(id))
}

func (c *ReservationClient) GetAll(status string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET(reservationsPath + "?" + q.Encode())
}

func (c *ReservationClient) Confirm(id string) (*Response, error) {
	return c.httpClient.POST(reservationsPath+"/id/"+url.PathEscape(id)+"/confirm", nil)
}

func (c *ReservationClient) Cancel(id string) (*Response, error) {
	return c.httpClient.POST(reservationsPath+"/id/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *ReservationClient) ListActive(propertyID string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/id/" + url.PathEscape(propertyID) + "/reservations")
}

func (c *ReservationClient) Quote(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/quotes", body)
}

func (c *ReservationClient) CreateProperty(body any) (*Response, error) {
	return c.httpClient.POST(propertiesPath, body)
}

func (c *ReservationClient) GetProperty(id string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/id/" + url.PathEscape(id))
}

func (c *ReservationClient) OverrideUnits(id string, body any) (*Response, error) {
	return c.httpClient.PUT(propertiesPath+"/id/"+url.PathEscape(id)+"/units", body)
}

func (c *ReservationClient) Audit(id string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/id/" + url.PathEscape(id) + "/audit")
}

func (c *ReservationClient) Stats() (*Response, error) {
	return c.httpClient.GET("/api/v1/admin/stats")
}

func (c *ReservationClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking: %w", err)
	}
	return &booking, nil
}

func (c *ReservationClient) DecodeProperty(resp *Response) (*model.Property, error) {
	var property model.Property
	if err := decodeData(resp, &property); err != nil {
		return nil, fmt.Errorf("could not decode property: %w", err)
	}
	return &property, nil
}

func (c *ReservationClient) DecodeAudit(resp *Response) (*model.InventoryAudit, error) {
	var audit model.InventoryAudit
	if err := decodeData(resp, &audit); err != nil {
		return nil, fmt.Errorf("could not decode audit: %w", err)
	}
	return &audit, nil
}

func (c *ReservationClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%s\n%w", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list:\n%s\n%w", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return bookings, metadata, nil
}

func decodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("%s: %w", resp.ToString(), err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("%s: %w", resp.ToString(), err)
	}
	return nil
}

func (c *ReservationClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}
