// Package kb holds the static per-agent knowledge base and its fuzzy
// matcher. The KB backs the router's local fallback when a primary reply
// looks too generic to ship.
package kb

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Entry is one canned question/answer pair.
type Entry struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// KnowledgeBase groups entries by owning agent name.
type KnowledgeBase struct {
	entries map[string][]Entry
	cutoff  float64
	dmp     *diffmatchpatch.DiffMatchPatch
}

// New builds a knowledge base with the given similarity cutoff.
func New(entries map[string][]Entry, cutoff float64) *KnowledgeBase {
	if cutoff <= 0 {
		cutoff = 0.6
	}
	return &KnowledgeBase{
		entries: entries,
		cutoff:  cutoff,
		dmp:     diffmatchpatch.New(),
	}
}

// Entries returns the entry list for an agent name, nil if absent.
func (k *KnowledgeBase) Entries(agent string) []Entry {
	return k.entries[agent]
}

// aliasCandidates expands an agent name to the lookup keys tried in order:
// as-is, with an "Agent" suffix appended, and with the suffix stripped,
// deduplicated preserving order.
func aliasCandidates(agent string) []string {
	var candidates []string
	if agent != "" {
		candidates = append(candidates, agent)
		if !strings.HasSuffix(agent, "Agent") {
			candidates = append(candidates, agent+"Agent")
		} else {
			candidates = append(candidates, strings.TrimSuffix(agent, "Agent"))
		}
	}
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// ratio is a normalized similarity in [0, 1]: twice the number of
// character matches over the total length of both strings.
func (k *KnowledgeBase) ratio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	diffs := k.dmp.DiffMain(a, b, false)
	common := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			common += len(d.Text)
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}

// Match returns the best KB answer for the message under the given agent
// name, or ("", false) when nothing matches. The highest-scoring entry
// across the alias candidates wins if it meets the cutoff; otherwise any
// entry sharing a token with the message matches, first in list order.
func (k *KnowledgeBase) Match(agent, message string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(message))
	if norm == "" {
		return "", false
	}

	candidates := aliasCandidates(agent)

	best := ""
	bestScore := 0.0
	for _, cname := range candidates {
		for _, entry := range k.entries[cname] {
			score := k.ratio(norm, strings.ToLower(entry.Question))
			if score > bestScore {
				bestScore = score
				best = entry.Answer
			}
		}
	}
	if best != "" && bestScore >= k.cutoff {
		return best, true
	}

	tokens := fields(norm)
	for _, cname := range candidates {
		for _, entry := range k.entries[cname] {
			for _, qtok := range strings.Fields(strings.ToLower(entry.Question)) {
				if tokens[qtok] {
					return entry.Answer, true
				}
			}
		}
	}
	return "", false
}

func fields(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		out[tok] = true
	}
	return out
}
