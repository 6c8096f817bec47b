package comunicapje

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
)

// TransportError covers network failures, timeouts and non-2xx responses
// from the ComunicaPJE API. The searcher recovers from it per target.
type TransportError struct {
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("comunicapje: request for %s failed: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// API is the surface of the ComunicaPJE service the searcher depends on.
type API interface {
	// Search queries communications made available on the given date (YYYY-MM-DD)
	// for one OAB registration.
	Search(ctx context.Context, oabNumber, oabUF, date string) (*models.ComunicacaoSearchResult, error)

	// Certificate fetches the certificate PDF identified by hash.
	Certificate(ctx context.Context, hash string) ([]byte, error)
}

type Client struct {
	cfg       *config.Config
	log       *zap.Logger
	transport http.RoundTripper
}

func NewClient(cfg *config.Config, log *zap.Logger, transport http.RoundTripper) API {
	return &Client{cfg, log, transport}
}

func (c *Client) timeout() time.Duration {
	return time.Duration(c.cfg.ComunicaPJE.TimeoutSecs) * time.Second
}

func (c *Client) Search(ctx context.Context, oabNumber, oabUF, date string) (*models.ComunicacaoSearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	var result models.ComunicacaoSearchResult
	err := requests.URL(c.cfg.ComunicaPJE.BaseURL).
		Path("/api/v1/comunicacao").
		Param("numeroOab", oabNumber).
		Param("ufOab", oabUF).
		Param("dataDisponibilizacaoInicio", date).
		Param("dataDisponibilizacaoFim", date).
		Transport(c.transport).
		ToJSON(&result).
		Fetch(ctx)
	if err != nil {
		return nil, &TransportError{Target: oabUF + oabNumber, Err: err}
	}
	return &result, nil
}

func (c *Client) Certificate(ctx context.Context, hash string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	buf := new(bytes.Buffer)
	err := requests.URL(c.cfg.ComunicaPJE.BaseURL).
		Pathf("/api/v1/certidao/%s", hash).
		Transport(c.transport).
		ToBytesBuffer(buf).
		Fetch(ctx)
	if err != nil {
		return nil, &TransportError{Target: hash, Err: err}
	}
	return buf.Bytes(), nil
}
