package api

import "net/http"

// health is a simple health check endpoint for container probes.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness probes both knowledge sources. Returns 503 until at least one
// source has retrievable content, so load balancers hold traffic off a fresh
// deployment that has not synced yet.
func readiness(kb KnowledgeSearcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ready := kb.Ready(r.Context())
		status := http.StatusOK
		if !ready.Docs && !ready.QA {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, ready)
	})
}
