package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/AngelCh415/campaign-dashboard/internal/metrics"
	"github.com/AngelCh415/campaign-dashboard/internal/models"
	"github.com/AngelCh415/campaign-dashboard/internal/telemetry"
	"github.com/AngelCh415/campaign-dashboard/internal/utils"
)

type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Prom           *telemetry.Prom
}

type errResponse struct {
	Error string `json:"error"`
}

type handler struct {
	svc *metrics.Service
	log *slog.Logger
}

func NewRouter(log *slog.Logger, svc *metrics.Service, opts Options) http.Handler {
	h := &handler{svc: svc, log: log}
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	if opts.Prom != nil {
		mux.Use(opts.Prom.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	if opts.Prom != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Prom.Handler())
	}

	mux.Route("/api/v1", func(api chi.Router) {
		if opts.RateLimitRPS > 0 {
			api.Use(utils.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
		}
		api.Get("/filters", func(w http.ResponseWriter, r *http.Request) { render.JSON(w, r, svc.Filters()) })
		api.Get("/overview", h.view(func(_ viewQuery, sel models.FilterSelection, _ *http.Request) (any, error) {
			return svc.Overview(sel), nil
		}))
		api.Get("/rankings", h.view(func(vq viewQuery, sel models.FilterSelection, _ *http.Request) (any, error) {
			var order *bool
			if vq.Order != "" {
				desc := vq.Order == "desc"
				order = &desc
			}
			return svc.Rankings(sel, metricOr(vq, metrics.CTR), order)
		}))
		api.Get("/campaigns", h.view(func(vq viewQuery, sel models.FilterSelection, _ *http.Request) (any, error) {
			return svc.Campaigns(sel, metricOr(vq, metrics.Impressions))
		}))
		api.Get("/audience", h.view(func(vq viewQuery, sel models.FilterSelection, _ *http.Request) (any, error) {
			return svc.Audience(sel, metricOr(vq, metrics.Impressions))
		}))
		api.Get("/funnel", h.view(func(_ viewQuery, sel models.FilterSelection, r *http.Request) (any, error) {
			campaigns := listParam(r.URL.Query(), "funnel_campaign", svc.Filters().OriginCampaigns)
			return svc.Funnel(sel, campaigns), nil
		}))
		api.Get("/channels", h.view(func(vq viewQuery, sel models.FilterSelection, r *http.Request) (any, error) {
			campaigns := listParam(r.URL.Query(), "channel_campaign", svc.Filters().OriginCampaigns)
			return svc.Channels(sel, metricOr(vq, metrics.Impressions), campaigns)
		}))
		api.Get("/insights", h.view(func(_ viewQuery, sel models.FilterSelection, _ *http.Request) (any, error) {
			return svc.Insights(sel), nil
		}))
	})

	return mux
}

type viewFunc func(vq viewQuery, sel models.FilterSelection, r *http.Request) (any, error)

// view parses the common filter parameters and renders fn's result.
func (h *handler) view(fn viewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		vq, err := parseViewQuery(q)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, err)
			return
		}
		sel, err := selection(q, vq, h.svc.Defaults())
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, err)
			return
		}
		out, err := fn(vq, sel, r)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, err)
			return
		}
		render.JSON(w, r, out)
	}
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	h.log.Warn("request rejected", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
	render.Status(r, code)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

func metricOr(vq viewQuery, def metrics.Metric) string {
	if vq.Metric == "" {
		return string(def)
	}
	return vq.Metric
}
