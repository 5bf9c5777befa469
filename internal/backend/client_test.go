package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/stub"
)

func newStubClient(t *testing.T, opts stub.Options) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(stub.New(opts).App()))
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL+"/", 5*time.Second, nil)
}

func TestClient_FullProcess(t *testing.T) {
	ctx := context.Background()
	c := newStubClient(t, stub.Options{})

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)

	created, err := c.CreateProcess(ctx, backend.CreateProcessInput{Topic: "AI in education"})
	require.NoError(t, err)
	require.NotNil(t, created.InitialOutline)

	tree := created.InitialOutline
	tree.Children = tree.Children[:1]
	_, err = c.UpdateOutline(ctx, created.ProcessID, tree)
	require.NoError(t, err)

	started, err := c.StartRetrieval(ctx, created.ProcessID, backend.RetrievalOptions{UseWeb: true, UseKB: true})
	require.NoError(t, err)
	assert.Equal(t, 2, started.InitialStatus.TotalLeafNodes)

	var status *backend.RetrievalStatusResponse
	for i := 0; i < 2; i++ {
		status, err = c.GetRetrievalStatus(ctx, created.ProcessID)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, status.RetrievalStatus.CompletedLeafNodes)

	_, err = c.StartComposition(ctx, created.ProcessID)
	require.NoError(t, err)

	var art *backend.ArticleResponse
	for i := 0; i < 4; i++ {
		art, err = c.GetArticle(ctx, created.ProcessID)
		require.NoError(t, err)
	}
	assert.Equal(t, backend.CompositionCompleted, art.CompositionStatus)
	assert.Contains(t, art.ArticleContent, "# AI in education")
}

func TestClient_APIErrorDetail(t *testing.T) {
	c := newStubClient(t, stub.Options{})

	_, err := c.GetArticle(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Process not found", apiErr.Detail)
	assert.True(t, backend.IsNotFound(err))
}

func TestClient_ComposeBeforeRetrieval(t *testing.T) {
	ctx := context.Background()
	c := newStubClient(t, stub.Options{})
	created, err := c.CreateProcess(ctx, backend.CreateProcessInput{Topic: "x"})
	require.NoError(t, err)

	_, err = c.StartComposition(ctx, created.ProcessID)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.False(t, backend.IsNotFound(err))
}

func TestClient_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(*backend.Client) error
	}{
		{"not json", "<html>", func(c *backend.Client) error {
			_, err := c.Health(context.Background())
			return err
		}},
		{"create without outline", `{"process_id":"p1"}`, func(c *backend.Client) error {
			_, err := c.CreateProcess(context.Background(), backend.CreateProcessInput{Topic: "t"})
			return err
		}},
		{"article without status", `{"process_id":"p1"}`, func(c *backend.Client) error {
			_, err := c.GetArticle(context.Background(), "p1")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := tt.call(backend.NewClient(srv.URL, time.Second, nil))
			assert.ErrorIs(t, err, backend.ErrMalformedResponse)
		})
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := backend.NewClient(srv.URL, time.Second, nil).Health(context.Background())
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Detail)
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newStubClient(t, stub.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Health(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
