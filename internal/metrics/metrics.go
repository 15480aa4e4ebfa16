// Package metrics holds the prometheus collectors the poster updates.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "poster"

var (
	Posts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_total",
		Help:      "Posting attempts by site and outcome.",
	}, []string{"site", "outcome"})
	Challenges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenges_total",
		Help:      "Verification challenges detected, by how they ended.",
	}, []string{"outcome"})
	ClickRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "click_retries_total",
		Help:      "Click attempts that failed and were retried or abandoned.",
	})
	ImagesUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_uploaded_total",
		Help:      "Image uploads by site and status.",
	}, []string{"site", "status"})
	SessionStarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Browser session starts by engine and status.",
	}, []string{"engine", "status"})
	PostDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "post_duration_seconds",
		Help:      "Wall time of one posting attempt.",
		Buckets:   []float64{5, 15, 30, 60, 120, 300},
	}, []string{"site"})
)

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[metrics] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
