// CLAUDE:SUMMARY HTTP read surface — frame trees, document lookups, recent messages, stats, reset.
package inspect

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterHTTP mounts the framewatch read surface on a chi router.
// Routes:
//
//	GET  /tabs/{tabID}/tree       frame forest for one tab
//	GET  /documents/{documentID}  document by persistent id
//	GET  /windows/{windowID}      document by window token
//	GET  /messages                recent messages (?tab_id=&limit=&offset=)
//	GET  /stats                   graph and log counters
//	POST /reset                   discard all session state
func (i *Inspector) RegisterHTTP(r chi.Router) {
	r.Get("/tabs/{tabID}/tree", i.handleTree)
	r.Get("/documents/{documentID}", i.handleDocument)
	r.Get("/windows/{windowID}", i.handleWindow)
	r.Get("/messages", i.handleMessages)
	r.Get("/stats", i.handleStats)
	r.Post("/reset", i.handleReset)
}

func (i *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	tabID, err := strconv.Atoi(chi.URLParam(r, "tabID"))
	if err != nil {
		http.Error(w, "invalid tab id", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"tab_id": tabID,
		"roots":  i.store.TreeSnapshot(tabID),
	})
}

func (i *Inspector) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentID")
	doc, ok := i.store.DocumentSnapshot(id)
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, doc)
}

func (i *Inspector) handleWindow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "windowID")
	doc, ok := i.store.DocumentSnapshotByWindow(id)
	if !ok {
		http.Error(w, "window not found", http.StatusNotFound)
		return
	}
	writeJSON(w, doc)
}

func (i *Inspector) handleMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tabID := -1 // all tabs
	if v := q.Get("tab_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid tab_id", http.StatusBadRequest)
			return
		}
		tabID = n
	}
	var limit, offset int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		offset = n
	}

	msgs, err := i.log.Recent(r.Context(), tabID, limit, offset)
	if err != nil {
		i.logger.Error("inspect: query messages", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"messages": msgs, "count": len(msgs)})
}

func (i *Inspector) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := i.store.StatsSnapshot()
	logged, err := i.log.Count(r.Context(), -1)
	if err != nil {
		i.logger.Error("inspect: count messages", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"frames":    stats.Frames,
		"documents": stats.Documents,
		"windows":   stats.Windows,
		"version":   stats.Version,
		"messages":  logged,
	})
}

func (i *Inspector) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := i.Reset(r.Context()); err != nil {
		i.logger.Error("inspect: reset", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
