package main

import (
	"net/http"
	"os"
	"time"

	"github.com/jurisalerta/jurisalerta/app"
	"github.com/jurisalerta/jurisalerta/comunicapje"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/datajud"
	"github.com/jurisalerta/jurisalerta/lib"
	"github.com/jurisalerta/jurisalerta/senders"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(senders.NewSenderRegistry),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(comunicapje.NewClient),
		fx.Provide(comunicapje.NewSearcher),
		fx.Provide(comunicapje.NewScheduler),
		fx.Provide(datajud.NewClient),
		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*http.Server) {}),
		fx.Invoke(func(*cron.Cron) {}),
	).Run()
}
