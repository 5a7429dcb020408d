package expo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTokens(n int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("ExponentPushToken[%03d]", i)
	}
	return tokens
}

func decodeMessages(t *testing.T, r *http.Request) []Message {
	t.Helper()
	var messages []Message
	require.NoError(t, json.NewDecoder(r.Body).Decode(&messages))
	return messages
}

func TestSend_BatchesAndAlignsReceipts(t *testing.T) {
	var batches [][]Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		messages := decodeMessages(t, r)
		batches = append(batches, messages)

		receipts := make([]map[string]string, len(messages))
		for i := range receipts {
			receipts[i] = map[string]string{"status": "ok"}
		}
		json.NewEncoder(w).Encode(receipts)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 100, time.Second, zap.NewNop())
	res := c.Send(context.Background(), testTokens(150), "title", "body", map[string]string{"k": "v"})

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 50)
	assert.Len(t, res.Delivered, 150)
	assert.Empty(t, res.Failed)

	// messages carry the expected wire fields in token order
	assert.Equal(t, "ExponentPushToken[000]", batches[0][0].To)
	assert.Equal(t, "ExponentPushToken[100]", batches[1][0].To)
	assert.Equal(t, "default", batches[0][0].Sound)
	assert.Equal(t, "title", batches[0][0].Title)
	assert.Equal(t, "body", batches[0][0].Body)
	assert.Equal(t, map[string]string{"k": "v"}, batches[0][0].Data)
}

func TestSend_WrappedResponseAndFailureReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"status":"ok"},
			{"status":"error","message":"device gone","details":{"error":"DeviceNotRegistered"}},
			{"status":"ok"}
		]}`))
	}))
	defer srv.Close()

	tokens := testTokens(3)
	c := NewClient(srv.URL, 100, time.Second, zap.NewNop())
	res := c.Send(context.Background(), tokens, "t", "b", nil)

	assert.Len(t, res.Delivered, 2)
	require.Len(t, res.Failed, 1)
	// the failed receipt maps back to the second token
	assert.Equal(t, tokens[1], res.Failed[0].Token)
	assert.False(t, res.Failed[0].Transient)
	assert.Contains(t, res.Failed[0].Raw, "DeviceNotRegistered")
}

func TestSend_TransportFailureMarksBatchTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 100, time.Second, zap.NewNop())
	res := c.Send(context.Background(), testTokens(3), "t", "b", nil)

	assert.Empty(t, res.Delivered)
	require.Len(t, res.Failed, 3)
	for _, o := range res.Failed {
		assert.True(t, o.Transient)
	}
}

func TestSend_ConnectionErrorMarksBatchTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, 100, time.Second, zap.NewNop())
	res := c.Send(context.Background(), testTokens(2), "t", "b", nil)

	assert.Empty(t, res.Delivered)
	require.Len(t, res.Failed, 2)
	assert.True(t, res.Failed[0].Transient)
}

func TestSend_UnexpectedShapeIsDiagnosticOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"code":"PUSH_TOO_MANY_EXPERIENCE_IDS"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 100, time.Second, zap.NewNop())
	res := c.Send(context.Background(), testTokens(2), "t", "b", nil)

	assert.Empty(t, res.Delivered)
	assert.Empty(t, res.Failed)
}

func TestSend_NoTokensMakesNoRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 100, time.Second, zap.NewNop())
	res := c.Send(context.Background(), nil, "t", "b", nil)

	assert.Zero(t, calls)
	assert.Empty(t, res.Delivered)
	assert.Empty(t, res.Failed)
}

func TestSend_OneFailingBatchDoesNotAbortTheRest(t *testing.T) {
	var call int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		if call == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		messages := decodeMessages(t, r)
		receipts := make([]map[string]string, len(messages))
		for i := range receipts {
			receipts[i] = map[string]string{"status": "ok"}
		}
		json.NewEncoder(w).Encode(receipts)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2, time.Second, zap.NewNop())
	res := c.Send(context.Background(), testTokens(4), "t", "b", nil)

	assert.Equal(t, 2, call)
	assert.Len(t, res.Failed, 2)
	assert.Len(t, res.Delivered, 2)
}

func TestParseReceipts(t *testing.T) {
	bare, ok := parseReceipts([]byte(`[{"status":"ok"}]`))
	assert.True(t, ok)
	assert.Len(t, bare, 1)

	wrapped, ok := parseReceipts([]byte(`{"data":[{"status":"ok"},{"status":"error"}]}`))
	assert.True(t, ok)
	assert.Len(t, wrapped, 2)

	_, ok = parseReceipts([]byte(`{"unexpected":true}`))
	assert.False(t, ok)
}
