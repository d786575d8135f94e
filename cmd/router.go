package main

import (
	"net/http"

	"github.com/angeloszaimis/endpoint-race/internal/handler"
	"github.com/angeloszaimis/endpoint-race/internal/metrics"
)

func setupRouter(statusHandler *handler.StatusHandler, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/fastest", statusHandler.Fastest)
	mux.HandleFunc("/outcomes", statusHandler.Outcomes)
	mux.HandleFunc("/metrics", collector.Handler())

	return mux
}
