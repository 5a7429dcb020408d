// Package expo sends push notifications through the Expo push API.
//
// Tokens are split into batches of at most 100 messages (the provider's
// per-request limit) and each batch is posted synchronously. Delivery
// problems are collected into the result, never returned as an error: the
// caller decides what to do with failed tokens.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultURL       = "https://exp.host/--/api/v2/push/send"
	DefaultBatchSize = 100
	DefaultTimeout   = 15 * time.Second
)

// Message is a single push message in the Expo wire format.
type Message struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Outcome is the per-token result of a delivery attempt. Raw keeps the
// provider's receipt (or the transport error) for diagnostics and for
// classifying the failure later. Transient marks whole-batch transport
// failures where no per-token knowledge exists.
type Outcome struct {
	Token     string `json:"token"`
	OK        bool   `json:"ok"`
	Transient bool   `json:"transient,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

// Result aggregates outcomes across all batches of one send.
type Result struct {
	Delivered []Outcome
	Failed    []Outcome
}

// Client talks to the Expo push endpoint.
type Client struct {
	url       string
	batchSize int
	http      *http.Client
	log       *zap.Logger
}

func NewClient(url string, batchSize int, timeout time.Duration, log *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:       url,
		batchSize: batchSize,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Send pushes title/body to every token and reports per-token outcomes.
// Batches are submitted sequentially; a failing batch never aborts the rest.
func (c *Client) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) Result {
	var res Result
	for start := 0; start < len(tokens); start += c.batchSize {
		end := start + c.batchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		c.sendBatch(ctx, tokens[start:end], title, body, data, &res)
	}
	return res
}

func (c *Client) sendBatch(ctx context.Context, batch []string, title, body string, data map[string]string, res *Result) {
	messages := make([]Message, 0, len(batch))
	for _, to := range batch {
		messages = append(messages, Message{
			To:    to,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		c.failBatch(batch, fmt.Sprintf("marshal messages: %v", err), res)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		c.failBatch(batch, fmt.Sprintf("build request: %v", err), res)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.failBatch(batch, fmt.Sprintf("push request failed: %v", err), res)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.failBatch(batch, fmt.Sprintf("read response: %v", err), res)
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.failBatch(batch, fmt.Sprintf("push gateway status %d: %s", resp.StatusCode, truncate(respBody, 512)), res)
		return
	}

	receipts, ok := parseReceipts(respBody)
	if !ok {
		// Diagnostic-only anomaly: nothing can be said about these tokens.
		c.log.Warn("unexpected push gateway response shape",
			zap.ByteString("body", truncate(respBody, 512)))
		return
	}

	// Receipts align positionally with the batch's token order.
	for i, raw := range receipts {
		if i >= len(batch) {
			break
		}
		var r struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(raw, &r)
		if r.Status == "ok" {
			res.Delivered = append(res.Delivered, Outcome{Token: batch[i], OK: true})
		} else {
			res.Failed = append(res.Failed, Outcome{Token: batch[i], Raw: string(raw)})
		}
	}
}

// parseReceipts normalizes both response shapes Expo is known to return: a
// bare receipt array, or an object wrapping the array under "data".
func parseReceipts(body []byte) ([]json.RawMessage, bool) {
	var bare []json.RawMessage
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, true
	}
	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, true
	}
	return nil, false
}

func (c *Client) failBatch(batch []string, reason string, res *Result) {
	c.log.Warn("push batch failed", zap.Int("tokens", len(batch)), zap.String("reason", reason))
	for _, token := range batch {
		res.Failed = append(res.Failed, Outcome{Token: token, Transient: true, Raw: reason})
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
