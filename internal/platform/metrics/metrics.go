package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path is where process metrics are exposed.
const Path = "/metrics"

// Handler serves metrics from the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Register mounts the metrics endpoint on the router.
func Register(r chi.Router) {
	r.Handle(Path, Handler())
}
