package robots

import (
	"encoding/json"
	"net/http"

	"github.com/xeniter/romygo/core/robotstatus"
)

// NewStatusHandler returns an HTTP handler exposing robot status snapshots
// via GET /api/robots/status.
func NewStatusHandler(store robotstatus.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f := robotstatus.Filter{
			Model: r.URL.Query().Get("model"),
			Name:  r.URL.Query().Get("name"),
		}
		entries := store.List(f)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
