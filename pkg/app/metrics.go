package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/echocat/slf4g"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blaubaer/call-audio-button/pkg/button"
	"github.com/blaubaer/call-audio-button/pkg/route"
)

type metrics struct {
	registry *prometheus.Registry

	routeRequests    *prometheus.CounterVec
	presentations    *prometheus.CounterVec
	capabilityErrors prometheus.Counter
	activeRoute      *prometheus.GaugeVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		routeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cab_route_requests_total",
			Help: "The total number of audio routes requested by the user, partitioned by mode.",
		}, []string{"mode"}),
		presentations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cab_presentations_total",
			Help: "The total number of evaluated button presentations, partitioned by behavior.",
		}, []string{"behavior"}),
		capabilityErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "cab_capability_errors_total",
			Help: "The total number of failed reads of the audio route facts.",
		}),
		activeRoute: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cab_active_route",
			Help: "1 for the audio route the call is currently played on, 0 for all others.",
		}, []string{"mode"}),
	}
}

func (this *metrics) onPresentation(p button.Presentation) {
	this.presentations.WithLabelValues(p.Behavior.String()).Inc()
	for _, mode := range route.AllModes {
		v := 0.0
		if mode == p.Mode {
			v = 1
		}
		this.activeRoute.WithLabelValues(mode.String()).Set(v)
	}
}

func (this *metrics) onRouteRequest(mode route.AudioMode) {
	this.routeRequests.WithLabelValues(mode.String()).Inc()
}

func (this *metrics) onCapabilityError() {
	this.capabilityErrors.Inc()
}

// serve blocks until ctx is done.
func (this *metrics) serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(this.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(sCtx)
	}()

	log.With("address", addr).
		Info("Serving metrics.")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
