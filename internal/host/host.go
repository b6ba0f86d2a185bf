// Package host configures the console HTTP server: the single mount point the
// application is attached to, and the always-on metrics, docs, profiling and
// health endpoints.
package host

import (
	"accessgate/internal/config"
	"accessgate/pkg/controller"
	"accessgate/pkg/logger"
	"accessgate/pkg/serrors"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// v1Spec contains the embedded OpenAPI specification of the console endpoints.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server.
// It is typically created from a config.Config via NewOptions.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// CORSOrigin is the allowed cross-origin caller; empty allows any origin.
	CORSOrigin string

	// Registerer receives the OpenTelemetry exporter. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Gatherer is served at MetricsPath. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewOptions maps the HTTP settings of cfg to Options.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		CORSOrigin:        cfg.HTTP.CORSOrigin,
	}
}

type mounted struct {
	http.Handler
}

// Host is the console HTTP server with one mount point. Until an
// application is mounted, every request outside the operational endpoints
// gets 503 with Retry-After.
type Host struct {
	// Server is the configured server; the caller runs and shuts it down.
	Server *http.Server

	mount         atomic.Pointer[mounted]
	meterProvider *sdkmetric.MeterProvider
}

// New wires up a Host. It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - OpenTelemetry metrics exporter (Prometheus) feeding the request duration histogram
// - Embedded OpenAPI spec and Swagger UI
// - pprof endpoints for profiling
// - /healthz
// It wraps the mux with CORS, logging and metrics middlewares and applies a request timeout.
func New(ctx context.Context, opts Options) (*Host, error) {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	h := &Host{}
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(opts.Registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	h.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	// specs file
	mux.HandleFunc("/specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// swagger playground
	mux.Handle("/docs/", v5emb.New(
		"Access Gate Console",
		"/specs/v1.yaml",
		"/docs/",
	))

	// pprof
	mux.Handle("/debug/pprof/", controller.PprofMux())

	mux.HandleFunc("/healthz", h.serveHealth)

	// mount point
	mux.HandleFunc("/", h.serveMount)

	// cors
	handler := controller.WithCORS(mux, opts.CORSOrigin)

	// metrics
	handler, err = controller.WithMetrics(handler, h.meterProvider.Meter("accessgate/internal/host"))
	if err != nil {
		return nil, err
	}

	// logger
	handler = controller.WithLogger(handler)

	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, "request timed out")
	}

	h.Server = &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(logger.Slog(ctx).Handler(), slog.LevelError),
	}

	return h, nil
}

// Mount attaches handler to the mount point. Only the first call succeeds.
func (h *Host) Mount(handler http.Handler) error {
	if handler == nil {
		return serrors.With(serrors.ErrBadRequest, "nil handler")
	}
	if !h.mount.CompareAndSwap(nil, &mounted{Handler: handler}) {
		return serrors.With(serrors.ErrConflict, "mount point is already occupied")
	}

	return nil
}

// Mounted reports whether an application is mounted.
func (h *Host) Mounted() bool {
	return h.mount.Load() != nil
}

// Shutdown stops the server gracefully and flushes the meter provider.
func (h *Host) Shutdown(ctx context.Context) error {
	err := h.Server.Shutdown(ctx)
	if mpErr := h.meterProvider.Shutdown(ctx); mpErr != nil && err == nil {
		err = fmt.Errorf("could not shutdown meter provider: %w", mpErr)
	}

	return err
}

func (h *Host) serveMount(w http.ResponseWriter, r *http.Request) {
	m := h.mount.Load()
	if m == nil {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "console is starting", http.StatusServiceUnavailable)

		return
	}

	m.ServeHTTP(w, r)
}

func (h *Host) serveHealth(w http.ResponseWriter, _ *http.Request) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ObjStart()
	e.FieldStart("status")
	e.Str("ok")
	e.FieldStart("mounted")
	e.Bool(h.Mounted())
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(e.Bytes())
}
