package senders

import (
	"context"
	"net/http"

	"github.com/jurisalerta/jurisalerta/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Attachment is a named byte blob included with a notification,
// e.g. a certificate PDF or a JSON dump of the raw communication.
type Attachment struct {
	Filename string
	Content  []byte
}

type Sender interface {
	Send(ctx context.Context, subject, body, recipient string, attachments []Attachment) (string, error)
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) Registry {
	base := base{log, cfg, transport}
	return map[string]Sender{
		"email": &mailgunSender{base},
	}
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
