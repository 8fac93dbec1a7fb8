package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/storefront-admin/internal/adminapi"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/messaging"
)

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
}

// NotificationHandler emails the customer whenever an order is finalized.
type NotificationHandler struct {
	emailServiceURL string
	customers       CustomerLookup
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewNotificationHandler(emailServiceURL string, customers CustomerLookup, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		emailServiceURL: emailServiceURL,
		customers:       customers,
		httpClient:      client,
		logger:          logger,
	}
}

type emailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h *NotificationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderFinalizedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return messaging.Permanent(fmt.Errorf("unmarshal order finalized event: %w", err))
	}

	h.logger.Info("processing order finalized event",
		"order_id", event.OrderID,
		"customer_id", event.CustomerID,
		"status", event.Status,
		"updated", event.Updated,
	)

	customer, err := h.customers.GetCustomer(ctx, event.CustomerID)
	if adminapi.IsNotFound(err) {
		return messaging.Permanent(fmt.Errorf("customer %s of order %s not found", event.CustomerID, event.OrderID))
	}
	if err != nil {
		return fmt.Errorf("get customer %s: %w", event.CustomerID, err)
	}

	if err := h.sendEmail(ctx, composeEmail(customer, event)); err != nil {
		h.logger.Error("failed to send order email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send order email: %w", err)
	}

	h.logger.Info("order notification sent", "order_id", event.OrderID, "to", customer.Email)
	return nil
}

func composeEmail(customer domain.Customer, event domain.OrderFinalizedEvent) emailRequest {
	var subject, intro string
	switch {
	case event.Status == domain.OrderStatusCancelled:
		subject = "Order Cancelled: " + event.OrderID
		intro = fmt.Sprintf("Your order %s has been cancelled.", event.OrderID)
	case event.Status == domain.OrderStatusCompleted:
		subject = "Order Completed: " + event.OrderID
		intro = fmt.Sprintf("Your order %s is complete.", event.OrderID)
	case event.Updated:
		subject = "Order Updated: " + event.OrderID
		intro = fmt.Sprintf("Your order %s has been updated.", event.OrderID)
	default:
		subject = "Order Confirmation: " + event.OrderID
		intro = fmt.Sprintf("Your order %s has been received.", event.OrderID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s\n\n", customer.Name, intro)
	for _, line := range event.Lines {
		fmt.Fprintf(&b, "%d x %s @ %s = %s\n", line.Quantity, line.ItemName, line.UnitPrice.Format(), line.Subtotal.Format())
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", event.Total.Format())

	return emailRequest{
		To:      customer.Email,
		Subject: subject,
		Body:    b.String(),
	}
}

func (h *NotificationHandler) sendEmail(ctx context.Context, body emailRequest) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusBadRequest {
		return messaging.Permanent(fmt.Errorf("email service rejected message to %s", body.To))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
