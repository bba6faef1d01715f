package api

import (
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-metrics"

	"github.com/heysubinoy/kvlookup/internal/store"
)

// MetricsHandler returns current store metrics as JSON.
func MetricsHandler(reader *store.InstrumentedReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := reader.GetMetrics()

		response := map[string]interface{}{
			"operations": map[string]uint64{
				"probe":      m.ProbeCount,
				"get":        m.GetCount,
				"get_hits":   m.GetHitCount,
				"get_misses": m.GetMissCount,
				"errors":     m.ErrorCount,
			},
			"avg_latency": map[string]string{
				"probe": m.ProbeAvgLatency.String(),
				"get":   m.GetAvgLatency.String(),
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// NewAdminHandler serves the metrics endpoints for the admin listener.
// GET /metrics/sink is only registered when inm is non-nil.
func NewAdminHandler(reader *store.InstrumentedReader, inm *metrics.InmemSink) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", MetricsHandler(reader))
	if inm != nil {
		mux.HandleFunc("GET /metrics/sink", func(w http.ResponseWriter, r *http.Request) {
			summary, err := inm.DisplayMetrics(w, r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(summary)
		})
	}
	return mux
}
