// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// both GraphQL engines and the repositories.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gqlbench"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	GraphQLOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_operations_total",
		Help:      "Executed GraphQL operations by engine and outcome.",
	}, []string{"engine", "status"})

	LoaderBatches = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loader_batch_size",
		Help:      "Number of keys per batched loader call.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"engine", "loader"})

	DBQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "db_queries_total",
		Help:      "SQL statements issued by repository operation.",
	}, []string{"op"})
)

// NewRegistry returns a registry with every collector of the package plus the
// Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		GraphQLOperations,
		LoaderBatches,
		DBQueries,
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func OperationStatus(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}
