// Package notify posts backend status alerts to a webhook.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/harveywai/leadflow/pkg/dashboard"
)

// Events sent to the webhook.
const (
	EventBackendOffline     = "backend_offline"
	EventBackendRecovered   = "backend_recovered"
	EventIntegrationChanged = "integration_changed"
)

// DefaultTemplates are the message bodies per event. Placeholders have the
// form {{key}}.
var DefaultTemplates = map[string]string{
	EventBackendOffline:     "LeadFlow cannot reach the lead backend (sync #{{generation}}): {{error}}",
	EventBackendRecovered:   "LeadFlow is receiving leads again: {{leads}} leads in sync #{{generation}}",
	EventIntegrationChanged: "LeadFlow integration mode is now {{mode}}",
}

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// formatMessage replaces {{key}} placeholders with values from data. Unknown
// keys are left as they are.
func formatMessage(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Event string            `json:"event"`
	Time  string            `json:"time"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Notifier watches load outcomes and posts an alert whenever the backend
// changes between reachable and unreachable, or between live and
// local-only. Stale outcomes are ignored.
type Notifier struct {
	webhookURL string
	secret     string
	client     *http.Client
	templates  map[string]string

	mu   sync.Mutex
	seen bool
	ok   bool
	live bool
}

// New returns a notifier posting to webhookURL. A non-empty secret is sent
// as a bearer token.
func New(webhookURL, secret string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		webhookURL: webhookURL,
		secret:     secret,
		client:     &http.Client{Timeout: timeout},
		templates:  DefaultTemplates,
	}
}

// Observe is a dashboard.Loader observer. Delivery failures are logged.
func (n *Notifier) Observe(o dashboard.Outcome) {
	event, data := n.transition(o)
	if event == "" {
		return
	}
	if err := n.Send(event, data, o.StartedAt); err != nil {
		log.Printf("failed to send %s alert: %v", event, err)
	}
}

// transition records o and returns the event it triggers, if any. An
// unreachable backend on the very first load alerts; a healthy one does not.
func (n *Notifier) transition(o dashboard.Outcome) (string, map[string]string) {
	if o.Stale {
		return "", nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	prevSeen, prevOK, prevLive := n.seen, n.ok, n.live
	n.seen, n.ok = true, o.OK()
	if o.OK() {
		n.live = o.Live
	}

	data := map[string]string{
		"generation": fmt.Sprintf("%d", o.Generation),
		"leads":      fmt.Sprintf("%d", o.LeadCount),
	}

	switch {
	case !o.OK() && (!prevSeen || prevOK):
		data["error"] = o.Err.Error()
		return EventBackendOffline, data
	case o.OK() && prevSeen && !prevOK:
		return EventBackendRecovered, data
	case o.OK() && prevSeen && prevOK && o.Live != prevLive:
		data["mode"] = modeLabel(o.Live)
		return EventIntegrationChanged, data
	}
	return "", nil
}

func modeLabel(live bool) string {
	if live {
		return "ClickUp LIVE"
	}
	return "Local Dashboard Only"
}

// Send posts one event to the webhook.
func (n *Notifier) Send(event string, data map[string]string, at time.Time) error {
	template, ok := n.templates[event]
	if !ok {
		return fmt.Errorf("no template found for event: %s", event)
	}

	payload := Payload{
		Title: "LeadFlow: " + strings.ReplaceAll(event, "_", " "),
		Body:  formatMessage(template, data),
		Event: event,
		Time:  at.UTC().Format(time.RFC3339),
		Extra: data,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set("Authorization", "Bearer "+n.secret)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status code %d", resp.StatusCode)
	}
	return nil
}
