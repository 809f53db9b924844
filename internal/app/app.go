package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/niksmo/pricecheck/config"
	"github.com/niksmo/pricecheck/internal/adapter/barcodeapi"
	"github.com/niksmo/pricecheck/internal/adapter/httphandler"
	"github.com/niksmo/pricecheck/internal/adapter/metrics"
	"github.com/niksmo/pricecheck/internal/core/service"
	"github.com/niksmo/pricecheck/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type App struct {
	cfg        config.Config
	logCloser  io.Closer
	metrics    *metrics.Metrics
	finder     barcodeapi.Client
	service    service.Service
	httpServer httphandler.HTTPServer
}

// New builds the whole server. It panics on setup errors.
func New(cfg config.Config) *App {
	app := &App{cfg: cfg}

	app.initLogger()
	app.initTelemetry()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

// NewService builds the search service without the HTTP side, for the
// terminal client.
func NewService(cfg config.Config) (service.Service, io.Closer, error) {
	app := &App{cfg: cfg}
	app.initLogger()
	app.initTelemetry()

	finder, err := newFinder(cfg)
	if err != nil {
		_ = app.logCloser.Close()
		return service.Service{}, nil, err
	}
	return service.New(finder, nil), app.logCloser, nil
}

func (app *App) initLogger() {
	app.logCloser = logger.Init(logger.Options{
		Level:       app.cfg.LogLevel,
		Development: app.cfg.IsDevelopment(),
		File:        app.cfg.LogFile,
	})
}

func (app *App) initTelemetry() {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	finder, err := newFinder(app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}
	app.finder = finder
	app.metrics = metrics.New()
}

func newFinder(cfg config.Config) (barcodeapi.Client, error) {
	up := cfg.Upstream
	return barcodeapi.NewClient(
		barcodeapi.EndpointOpt(up.BaseURL, up.Path),
		barcodeapi.TimeoutOpt(up.Timeout),
		barcodeapi.MaxAttemptsOpt(up.MaxAttempts),
		barcodeapi.TLSOpt(up.TLS.CAFile, up.TLS.CertFile, up.TLS.KeyFile),
	)
}

func (app *App) initCoreService() {
	app.service = service.New(app.finder, app.metrics)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterSearch(mux, app.service)
	httphandler.RegisterProbes(mux, app.metrics.Handler())

	var handler http.Handler = httphandler.Observe(mux, app.metrics)
	handler = httphandler.AllowOrigins(handler, app.cfg.CORS.AllowedOrigins)
	handler = httphandler.RequestID(handler)
	handler = httphandler.Trace(handler)

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HTTPRequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	log := logger.Op("App.Run")
	log.Info().Msg("application is running")
}

func (app *App) Close(ctx context.Context) {
	log := logger.Op("App.Close")
	log.Info().Msg("application is closing...")

	app.httpServer.Close(ctx)

	log.Info().Msg("application is closed")
	_ = app.logCloser.Close()
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
