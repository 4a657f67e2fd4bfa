package api

import (
	"encoding/json"
	"net/http"
	"runtime/pprof"

	_ "net/http/pprof"

	"github.com/logtide/collector/server"
	"github.com/logtide/collector/types"
	"github.com/logtide/collector/version"

	"github.com/bmizerany/pat"
	units "github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// JSON .
type JSON map[string]interface{}

// Handler define handler
type Handler struct {
	config *types.Config
	server *server.Server
}

// NewHandler new api http handler
func NewHandler(config *types.Config, server *server.Server) *Handler {
	return &Handler{
		config: config,
		server: server,
	}
}

// URL /version/
func (h *Handler) version(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, JSON{"version": version.VERSION, "revision": version.REVISION})
}

// URL /profile/
func (h *Handler) profile(w http.ResponseWriter, req *http.Request) {
	r := JSON{}
	for _, p := range pprof.Profiles() {
		r[p.Name()] = p.Count()
	}
	writeJSON(w, http.StatusOK, r)
}

// URL /status/
func (h *Handler) status(w http.ResponseWriter, req *http.Request) {
	stats := h.server.Stats()
	var bytes uint64
	for _, summary := range stats.RecentlyClosed {
		bytes += summary.Bytes
	}
	writeJSON(w, http.StatusOK, JSON{
		"alive":                stats.Alive,
		"active_connections":   stats.ActiveConns,
		"accepted_connections": stats.AcceptedConns,
		"shutdown_pending":     stats.ShutdownPending,
		"recently_closed":      stats.RecentlyClosed,
		"recently_closed_size": units.BytesSize(float64(bytes)),
	})
}

func writeJSON(w http.ResponseWriter, code int, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Errorf("[api] failed to write response: %v", err)
	}
}

// Serve start a api service
// blocks by http.ListenAndServe
func (h *Handler) Serve() {
	if h.config.API.Addr == "" {
		return
	}

	restfulAPIServer := pat.New()
	handlers := map[string]map[string]func(http.ResponseWriter, *http.Request){
		"GET": {
			"/version/": h.version,
			"/profile/": h.profile,
			"/status/":  h.status,
		},
	}
	for method, routes := range handlers {
		for route, handler := range routes {
			restfulAPIServer.Add(method, route, http.HandlerFunc(handler))
		}
	}
	restfulAPIServer.Add("GET", "/metrics/", promhttp.Handler())

	http.Handle("/", restfulAPIServer)
	log.Infof("[api] http api started %s", h.config.API.Addr)
	if err := http.ListenAndServe(h.config.API.Addr, nil); err != nil {
		log.Errorf("[api] http api failed %s", err)
	}
}
