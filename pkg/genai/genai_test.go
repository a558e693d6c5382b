package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	c := NewClient("test-key", "test-model")
	c.baseURL = srv.URL
	return c
}

func candidateJSON(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func TestGenerateTextSendsSystemAndHistory(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, candidateJSON("hello"))
	}))
	defer srv.Close()

	c := testClient(srv)
	reply, err := c.GenerateText(context.Background(), "be helpful", []Turn{
		{Role: "user", Text: "hi"},
		{Role: "model", Text: "hello there"},
	}, "what SUVs do you have?")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be helpful", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "what SUVs do you have?", got.Contents[2].Parts[0].Text)
}

func TestGenerateRetriesOnRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, candidateJSON("ok"))
	}))
	defer srv.Close()

	c := testClient(srv)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	reply, err := c.GenerateText(ctx, "", nil, "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.GenerateText(context.Background(), "", nil, "ping")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateJSONUnmarshalsSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.NotNil(t, got.GenerationConfig)
		assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
		fmt.Fprint(w, candidateJSON(`{"type":"SUV","price_yen":4500000}`))
	}))
	defer srv.Close()

	c := testClient(srv)
	var out struct {
		Type     string `json:"type"`
		PriceYen int64  `json:"price_yen"`
	}
	schema := json.RawMessage(`{"type":"object"}`)
	require.NoError(t, c.GenerateJSON(context.Background(), "draft it", schema, &out))
	assert.Equal(t, "SUV", out.Type)
	assert.Equal(t, int64(4500000), out.PriceYen)
}

func TestGenerateJSONRejectsInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateJSON("not json at all"))
	}))
	defer srv.Close()

	c := testClient(srv)
	var out map[string]interface{}
	err := c.GenerateJSON(context.Background(), "draft it", json.RawMessage(`{}`), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}
