// Package datajud is a thin client for the public DataJud API of the CNJ.
// Responses are passed through to callers untouched.
package datajud

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/jurisalerta/jurisalerta/config"
	"go.uber.org/zap"
)

type Client struct {
	cfg       *config.Config
	log       *zap.Logger
	transport http.RoundTripper
}

func NewClient(cfg *config.Config, log *zap.Logger, transport http.RoundTripper) *Client {
	return &Client{cfg, log, transport}
}

// ProcessQuery carries the optional filters of a process search.
type ProcessQuery struct {
	NumeroProcesso string
	Tribunal       string
	Classe         string
	Assunto        string
	DataInicio     string
	DataFim        string
	Page           int
	Size           int
}

func (c *Client) SearchProcesses(ctx context.Context, q ProcessQuery) (json.RawMessage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 20
	}

	builder := c.builder("/processos").
		Param("page", strconv.Itoa(q.Page)).
		Param("size", strconv.Itoa(q.Size))

	for key, value := range map[string]string{
		"numeroProcesso": q.NumeroProcesso,
		"tribunal":       q.Tribunal,
		"classe":         q.Classe,
		"assunto":        q.Assunto,
		"dataInicio":     q.DataInicio,
		"dataFim":        q.DataFim,
	} {
		if value != "" {
			builder = builder.Param(key, value)
		}
	}

	return c.fetch(ctx, builder)
}

func (c *Client) ProcessDetails(ctx context.Context, processoID string) (json.RawMessage, error) {
	return c.fetch(ctx, c.builder("/processos/"+processoID))
}

func (c *Client) ProcessMovements(ctx context.Context, processoID string) (json.RawMessage, error) {
	return c.fetch(ctx, c.builder("/processos/"+processoID+"/movimentacoes"))
}

func (c *Client) Tribunals(ctx context.Context) (json.RawMessage, error) {
	return c.fetch(ctx, c.builder("/tribunais"))
}

func (c *Client) ProcessClasses(ctx context.Context) (json.RawMessage, error) {
	return c.fetch(ctx, c.builder("/classes"))
}

func (c *Client) ProcessSubjects(ctx context.Context) (json.RawMessage, error) {
	return c.fetch(ctx, c.builder("/assuntos"))
}

func (c *Client) builder(path string) *requests.Builder {
	return requests.URL(c.cfg.DataJud.BaseURL).
		Path(path).
		Header("User-Agent", "JurisAlerta/1.0").
		ContentType("application/json").
		Transport(c.transport)
}

func (c *Client) fetch(ctx context.Context, builder *requests.Builder) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.DataJud.TimeoutSecs)*time.Second)
	defer cancel()

	var raw json.RawMessage
	if err := builder.ToJSON(&raw).Fetch(ctx); err != nil {
		return nil, err
	}
	return raw, nil
}
