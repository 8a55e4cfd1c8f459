package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// MarkerKey is the session storage key recording that the beacon fired
const MarkerKey = "notified"

// TimestampLayout renders the visit time the way a US-locale browser does
const TimestampLayout = "1/2/2006, 3:04:05 PM"

const (
	beaconUsername = "Portfolio Tracker"
	beaconTitle    = "New Portfolio Visit!"
	beaconColor    = 3447003
	beaconFooter   = "Portfolio Analytics Bot"
)

// SessionStore is the per-session key-value store
type SessionStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// SessionMarker records whether this session already sent the beacon
type SessionMarker struct {
	store SessionStore
}

// NewSessionMarker returns a marker over store; nil store never remembers
func NewSessionMarker(store SessionStore) *SessionMarker {
	return &SessionMarker{store: store}
}

// Notified reports whether the marker is set. Unreadable storage counts as unset.
func (m *SessionMarker) Notified() bool {
	if m == nil || m.store == nil {
		return false
	}
	_, ok, err := m.store.Get(MarkerKey)
	return err == nil && ok
}

// Mark sets the marker
func (m *SessionMarker) Mark() error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Set(MarkerKey, "true")
}

// Visit describes the page view the beacon reports. It is captured on the
// page goroutine before the beacon runs.
type Visit struct {
	Title     string
	URL       string
	UserAgent string
	Time      time.Time
}

// Result is what Send did
type Result string

const (
	ResultSent            Result = "sent"
	ResultAlreadyNotified Result = "already-notified"
	ResultDisabled        Result = "disabled"
)

type webhookPayload struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

type embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []embedField `json:"fields"`
	Footer embedFooter  `json:"footer"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// DeviceSummary shortens a user agent to its leading platform segment,
// e.g. "Mozilla/5.0 (X11; Linux x86_64)".
func DeviceSummary(userAgent string) string {
	head, _, _ := strings.Cut(userAgent, ") ")
	return head + ")"
}

func buildPayload(v Visit) webhookPayload {
	return webhookPayload{
		Username: beaconUsername,
		Embeds: []embed{{
			Title: beaconTitle,
			Color: beaconColor,
			Fields: []embedField{
				{Name: "Page Title", Value: v.Title, Inline: true},
				{Name: "URL", Value: v.URL, Inline: true},
				{Name: "Device/Browser", Value: DeviceSummary(v.UserAgent)},
				{Name: "Timestamp", Value: v.Time.Local().Format(TimestampLayout)},
			},
			Footer: embedFooter{Text: beaconFooter},
		}},
	}
}

// Beacon reports one visit per session to a chat webhook
type Beacon struct {
	webhookURL string
	client     *http.Client
	marker     *SessionMarker
	logger     *slog.Logger
}

// NewBeacon returns a beacon. An empty webhookURL disables it.
func NewBeacon(webhookURL string, client *http.Client, marker *SessionMarker, logger *slog.Logger) *Beacon {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Beacon{webhookURL: webhookURL, client: client, marker: marker, logger: logger}
}

// Enabled reports whether a webhook URL is configured
func (b *Beacon) Enabled() bool { return b.webhookURL != "" }

// Send posts the visit unless the session was already reported. Any response
// counts as delivered and sets the marker; a transport failure is logged,
// returned, and leaves the marker unset so a later page load retries.
func (b *Beacon) Send(ctx context.Context, v Visit) (Result, error) {
	if !b.Enabled() {
		return ResultDisabled, nil
	}
	if b.marker.Notified() {
		return ResultAlreadyNotified, nil
	}

	body, err := json.Marshal(buildPayload(v))
	if err != nil {
		return "", fmt.Errorf("encoding beacon payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating beacon request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Error("webhook failed", "error", err)
		return "", fmt.Errorf("sending beacon: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		b.logger.Debug("webhook answered with non-success status", "status", resp.StatusCode)
	}
	if err := b.marker.Mark(); err != nil {
		b.logger.Debug("could not record beacon marker", "error", err)
	}
	return ResultSent, nil
}
