package comunicapje_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jurisalerta/jurisalerta/comunicapje"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) comunicapje.API {
	cfg := &config.Config{}
	cfg.ComunicaPJE.BaseURL = "https://comunica.test"
	cfg.ComunicaPJE.TimeoutSecs = 5
	return comunicapje.NewClient(cfg, zap.NewNop(), fn)
}

func TestClient_Search_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "comunica.test", r.URL.Host)
		require.Equal(t, "/api/v1/comunicacao", r.URL.Path)

		q := r.URL.Query()
		require.Equal(t, "123456", q.Get("numeroOab"))
		require.Equal(t, "SP", q.Get("ufOab"))
		require.Equal(t, "2026-08-29", q.Get("dataDisponibilizacaoInicio"))
		require.Equal(t, "2026-08-29", q.Get("dataDisponibilizacaoFim"))

		body := `{"count":1,"items":[{"numeroprocessocommascara":"0001-A","texto":"oi","hash":"h1"}]}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})

	result, err := c.Search(context.Background(), "123456", "SP", "2026-08-29")
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Len(t, result.Items, 1)
	require.Equal(t, "0001-A", result.Items[0].NumeroProcesso)
	require.Equal(t, "h1", result.Items[0].Hash)
}

func TestClient_Search_non2xx(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream bad")),
		}, nil
	})

	_, err := c.Search(context.Background(), "123456", "SP", "2026-08-29")
	require.Error(t, err)

	var transportErr *comunicapje.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, "SP123456", transportErr.Target)
}

func TestClient_Search_networkError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, boom
	})

	_, err := c.Search(context.Background(), "123456", "SP", "2026-08-29")
	var transportErr *comunicapje.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestClient_Certificate(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/v1/certidao/abc123", r.URL.Path)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("%PDF-fake")),
		}, nil
	})

	pdf, err := c.Certificate(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-fake"), pdf)
}

func TestClient_Certificate_non2xx(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("nope")),
		}, nil
	})

	_, err := c.Certificate(context.Background(), "missing")
	var transportErr *comunicapje.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, "missing", transportErr.Target)
}
