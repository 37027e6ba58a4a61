package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"decorconnect/internal/entities"
)

// NotificationsClient is the thin bridge to the notification gateway. The
// gateway owns the realtime transport to connected clients; this side only
// posts the reservation lifecycle payloads.
type NotificationsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNotificationsClient(baseURL string) *NotificationsClient {
	return &NotificationsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type reservationNotification struct {
	Kind       string `json:"kind"`
	BookingID  string `json:"booking_id"`
	ProviderID string `json:"provider_id"`
	CustomerID string `json:"customer_id"`
	EventDate  string `json:"event_date"`
}

func (c *NotificationsClient) PushReservationConfirmed(ctx context.Context, event entities.ReservationConfirmed_v1) error {
	return c.push(ctx, reservationNotification{
		Kind:       "reservation_confirmed",
		BookingID:  event.BookingID,
		ProviderID: event.ProviderID.String(),
		CustomerID: event.CustomerID.String(),
		EventDate:  event.EventDate.String(),
	})
}

func (c *NotificationsClient) PushReservationCancelled(ctx context.Context, event entities.ReservationCancelled_v1) error {
	return c.push(ctx, reservationNotification{
		Kind:       "reservation_cancelled",
		BookingID:  event.BookingID,
		ProviderID: event.ProviderID.String(),
		CustomerID: event.CustomerID.String(),
		EventDate:  event.EventDate.String(),
	})
}

func (c *NotificationsClient) push(ctx context.Context, notification reservationNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	return nil
}
