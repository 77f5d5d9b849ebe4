package router

import (
	"strings"
)

// Score is the dev-mode rubric attached to responses: how well the reply
// tracks the prompt. Heuristic only; not a quality gate.
type Score struct {
	Relevance   int `json:"relevance"`
	Correctness int `json:"correctness"`
	Clarity     int `json:"clarity"`
	Total       int `json:"total"`
}

// Evaluate scores a reply against its prompt. Relevance checks the
// prompt's leading tokens appear in the reply, correctness checks one
// example rule, clarity rewards longer sentences.
func Evaluate(prompt, reply string) Score {
	var s Score

	p := strings.ToLower(prompt)
	r := strings.ToLower(reply)

	ptoks := strings.Fields(p)
	if len(ptoks) > 3 {
		ptoks = ptoks[:3]
	}
	for _, tok := range ptoks {
		if strings.Contains(r, tok) {
			s.Relevance = 40
			break
		}
	}

	if strings.Contains(p, "password") && strings.Contains(r, "reset") {
		s.Correctness = 25
	}

	if len(strings.Fields(reply)) > 6 {
		s.Clarity = 15
	}

	s.Total = s.Relevance + s.Correctness + s.Clarity
	return s
}
