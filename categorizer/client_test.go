package categorizer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{Endpoint: srv.URL + "/api/categorize"}, zerolog.Nop())
}

func TestClientCategorize(t *testing.T) {
	var got categorizeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/categorize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"question":"What is love?","categories":[{"name":"Theology","confidence":91}]},
			{"question":"Who wrote Genesis?","categories":[{"name":"Authorship","confidence":77}]}
		]`)
	})

	questions := []Question{{Text: "What is love?"}, {Text: "Who wrote Genesis?"}}
	categories := []Category{{Name: "Theology"}, {Name: "Authorship"}}
	results, err := client.Categorize(context.Background(), questions, categories)
	require.NoError(t, err)

	assert.Equal(t, questions, got.Questions)
	assert.Equal(t, categories, got.Categories)
	require.Len(t, results, 2)
	assert.Equal(t, Result{Question: "What is love?", Categories: []CategoryMatch{{Name: "Theology", Confidence: 91}}}, results[0])
	assert.Equal(t, 77.0, results[1].Categories[0].Confidence)
}

func TestClientOmitsMissingFields(t *testing.T) {
	var raw map[string][]map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.Categorize(context.Background(), []Question{{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{}}, raw["questions"])
	assert.Contains(t, raw, "categories")
	assert.Empty(t, raw["categories"])
}

func TestClientNullResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	results, err := client.Categorize(context.Background(), []Question{{Text: "q"}}, []Category{{Name: "c"}})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClientStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "classifier unavailable", http.StatusBadGateway)
	})

	_, err := client.Categorize(context.Background(), []Question{{Text: "q"}}, []Category{{Name: "c"}})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "classifier unavailable", statusErr.Body)
	assert.Contains(t, err.Error(), "502")
}

func TestClientMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":`)
	})

	_, err := client.Categorize(context.Background(), []Question{{Text: "q"}}, []Category{{Name: "c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClientEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Categorize(context.Background(), []Question{{Text: "q"}}, []Category{{Name: "c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty body")
}

func TestClientHonoursContext(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Categorize(ctx, []Question{{Text: "q"}}, []Category{{Name: "c"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{TimeoutSeconds: 5}, zerolog.Nop())
	assert.Equal(t, DefaultEndpoint, client.Endpoint())
	assert.Equal(t, 5*time.Second, client.http.Timeout)
}
