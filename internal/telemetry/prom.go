// Package telemetry exposes Prometheus collectors for the dashboard.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Prom struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	views    *prometheus.HistogramVec
	viewRows *prometheus.GaugeVec
	loads    *prometheus.CounterVec
	tableLen *prometheus.GaugeVec
}

func New() *Prom {
	p := &Prom{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard", Name: "http_requests_total", Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard", Name: "http_request_duration_seconds", Help: "HTTP latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		views: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard", Name: "view_compute_seconds", Help: "Time to recompute a dashboard view.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"view"}),
		viewRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dashboard", Name: "view_input_rows", Help: "Filtered rows behind the last computation of a view.",
		}, []string{"view"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard", Name: "table_loads_total", Help: "Table loads by table and result.",
		}, []string{"table", "result"}),
		tableLen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dashboard", Name: "table_rows", Help: "Rows in the loaded raw table.",
		}, []string{"table"}),
	}
	p.reg.MustRegister(p.requests, p.latency, p.views, p.viewRows, p.loads, p.tableLen,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return p
}

func (p *Prom) ObserveView(view string, d time.Duration, rows int) {
	p.views.WithLabelValues(view).Observe(d.Seconds())
	p.viewRows.WithLabelValues(view).Set(float64(rows))
}

func (p *Prom) ObserveLoad(table string, rows int, err error) {
	if err != nil {
		p.loads.WithLabelValues(table, "error").Inc()
		return
	}
	p.loads.WithLabelValues(table, "ok").Inc()
	p.tableLen.WithLabelValues(table).Set(float64(rows))
}

func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// Middleware counts requests per matched chi route pattern.
func (p *Prom) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		p.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		p.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
