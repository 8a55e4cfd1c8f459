// Package notify sends the page's outbound messages: contact-form submissions
// to the form relay and the once-per-session visit beacon.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/jonathan/portfolio/internal/dom"
)

// DefaultRelayURL is the contact relay endpoint
const DefaultRelayURL = "https://api.web3forms.com/submit"

// ErrRejected is returned when the relay answers without success: true
var ErrRejected = errors.New("relay rejected submission")

// Relay posts form fields to a contact relay as multipart/form-data
type Relay struct {
	endpoint string
	client   *http.Client
}

// NewRelay returns a relay client. Empty endpoint selects DefaultRelayURL and
// a nil client selects http.DefaultClient.
func NewRelay(endpoint string, client *http.Client) *Relay {
	if endpoint == "" {
		endpoint = DefaultRelayURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Relay{endpoint: endpoint, client: client}
}

// Endpoint returns the relay URL
func (r *Relay) Endpoint() string { return r.endpoint }

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit posts fields in order. It returns nil only when the relay replies
// with a 2xx status and a JSON body whose success flag is true.
func (r *Relay) Submit(ctx context.Context, fields []dom.Field) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("encoding field %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return fmt.Errorf("creating relay request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading relay response: %w", err)
	}
	var out relayResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decoding relay response (status %d): %w", resp.StatusCode, err)
	}
	if !out.Success {
		if out.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, out.Message)
		}
		return ErrRejected
	}
	return nil
}
