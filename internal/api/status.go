package api

import (
	"net/http"
	"sort"

	"github.com/ashureev/campus-concierge/internal/agent"
)

type agentStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
}

// AgentsStatus reports each registered agent and its health. Health comes
// from the typed HealthReporter query; agents without one are assumed
// healthy since they run on local tables only.
func (h *Handler) AgentsStatus(w http.ResponseWriter, r *http.Request) {
	var out []agentStatus
	for name, a := range h.engine.Agents() {
		healthy := true
		if hr, ok := a.(agent.HealthReporter); ok {
			healthy = hr.Healthy()
		}
		out = append(out, agentStatus{Name: name, Healthy: healthy})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	opts := h.engine.Opts()
	JSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"agents":        out,
		"llm_available": h.client.Available(),
		"fallback": map[string]any{
			"fuzzy_cutoff":      opts.FuzzyCutoff,
			"generic_max_words": opts.GenericMaxWords,
		},
	})
}

// LLMStatus reports whether the model backend is usable and which model
// is configured.
func (h *Handler) LLMStatus(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"available": h.client.Available(),
		"model":     h.client.Model(),
	})
}
