// Package adminapi is the HTTP client for the storefront admin services. It
// is used both service-to-service and by the admin CLI.
//
// Mutations are never applied optimistically: callers apply the record the
// server returns on success, and keep their previous state on error.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

// PersistenceError is a non-2xx answer from the server. Message is the
// server's error text, unchanged.
type PersistenceError struct {
	StatusCode int
	Message    string
	Fields     forms.Errors
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		client:  client,
	}
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields forms.Errors `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	pe := &PersistenceError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		pe.Message = body.Error
		pe.Fields = body.Fields
	} else {
		pe.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return pe
}

func escape(id string) string {
	return url.PathEscape(id)
}
