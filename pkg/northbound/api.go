package northbound

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New returns an API configured by opts.
func New(opts ...Option) *API {
	x := API{
		l: hclog.NewNullLogger(),
	}
	for _, o := range opts {
		o(&x)
	}
	return &x
}

// HTTPEntry provides the mountpoint for the API into the shared
// webserver routing tree.
func (a *API) HTTPEntry() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Heartbeat("/healthz"))

	if a.cfg != nil {
		r.Get("/api/2.0/config", a.httpGetConfig)
		r.Patch("/api/2.0/config", a.httpPatchConfig)
	}
	if a.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (a *API) httpGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cfg.All())
}

func (a *API) httpPatchConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a JSON object"})
		return
	}

	for k, v := range patch {
		if err := a.cfg.Set(k, v); err != nil {
			a.l.Error("Unable to set configuration", "key", k, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		a.l.Info("Configuration updated", "key", k)
	}

	writeJSON(w, http.StatusOK, a.cfg.All())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
