package langserve_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/agentwire"
	"github.com/fwojciec/agentwire/langserve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestFormat(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":{"content":"ok"}}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.RunQuery(context.Background(), agentwire.Query{Prompt: "Hello"})
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(captured, &body))

	input := body["input"].(map[string]interface{})
	assert.Equal(t, "Hello", input["prompt"])

	// config and kwargs are sent as empty objects, never null.
	assert.Equal(t, map[string]interface{}{}, body["config"])
	assert.Equal(t, map[string]interface{}{}, body["kwargs"])
}

func TestClient_RequestFormat_PassthroughParams(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"output":{"content":"ok"}}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.RunQuery(context.Background(), agentwire.Query{
		Prompt: "Hello",
		Config: map[string]any{"tags": []any{"cli"}},
		Kwargs: map[string]any{"temperature": 0.2},
	})
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(captured, &body))
	assert.Equal(t, map[string]interface{}{"tags": []interface{}{"cli"}}, body["config"])
	assert.Equal(t, map[string]interface{}{"temperature": 0.2}, body["kwargs"])
}

func TestClient_RunQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":{"content":"42"}}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	got, err := client.RunQuery(context.Background(), agentwire.Query{Prompt: "what is 6 * 7?"})
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestClient_RunQuery_ErrorDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"overloaded"}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.RunQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestClient_RunQuery_ErrorFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.RunQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error! status: 503")
}

func TestClient_RunQuery_MalformedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"output":`},
		{"missing output", `{}`},
		{"missing content", `{"output":{}}`},
		{"content wrong type", `{"output":{"content":42}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := langserve.New(srv.URL)
			_, err := client.RunQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
			assert.Error(t, err)
		})
	}
}

func TestClient_RunQuery_ValidationError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the backend")
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.RunQuery(context.Background(), agentwire.Query{})
	assert.ErrorIs(t, err, agentwire.ErrValidation)
}

func TestClient_CustomPaths(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/invoke", r.URL.Path)
		_, _ = w.Write([]byte(`{"output":{"content":"ok"}}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL, langserve.WithInvokePath("/v2/invoke"))
	_, err := client.RunQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.NoError(t, err)
}

func TestClient_StreamQuery_RequestFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query/stream", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	s, err := client.StreamQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestClient_StreamQuery_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.StreamQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_StreamQuery_WrongContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":{"content":"not a stream"}}`))
	}))
	defer srv.Close()

	client := langserve.New(srv.URL)
	_, err := client.StreamQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an event stream")
}

func TestClient_StreamQuery_ValidationError(t *testing.T) {
	t.Parallel()

	client := langserve.New("http://127.0.0.1:0")
	_, err := client.StreamQuery(context.Background(), agentwire.Query{})
	assert.ErrorIs(t, err, agentwire.ErrValidation)
}
