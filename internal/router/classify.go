// Package router maps incoming messages to specialized agents and owns
// the local knowledge-base fallback for replies that look too generic.
package router

import (
	"strings"

	"github.com/ashureev/campus-concierge/internal/agent"
)

// keywordGroup is one ordered routing rule: first group whose substring
// matches wins.
type keywordGroup struct {
	agent    string
	keywords []string
}

// classifierGroups are evaluated in order. FAQ is the default when no
// group matches. The Error group only names a knowledge-base bucket for
// fallback answers; no handler carries that name.
var classifierGroups = []keywordGroup{
	{agent.NameOrientation, []string{"orientation", "onboarding", "how can i start", "how to start", "get started", "enroll", "onboard"}},
	{agent.NameTechSupport, []string{"lockdown", "respondus", "ms365", "login", "log in", "password", "can't log", "cant log"}},
	{agent.NameProgress, []string{"access code", "progress", "where am i", "percent", "completion", "completed", "grade", "activate", "course status"}},
	{agent.NameFAQ, []string{"refund", "class time", "timings", "schedule", "fees", "certificate", "how long", "duration"}},
	{"ErrorAgent", []string{"traceback", "exception", "crash", "error", "server"}},
}

// Classify returns the agent name for a message. First matching keyword
// group wins; unmatched text defaults to the FAQ agent.
func Classify(message string) string {
	m := strings.ToLower(message)
	for _, g := range classifierGroups {
		for _, kw := range g.keywords {
			if strings.Contains(m, kw) {
				return g.agent
			}
		}
	}
	return agent.NameFAQ
}

// genericPhrases are the stock framing phrases that mark a reply as
// generic.
var genericPhrases = []string{
	"i can", "here are", "sure", "happy to", "i'm here to",
	"i can help", "please provide", "you can",
}

// LooksGeneric reports whether a reply is too generic to ship as-is.
// Empty replies, replies containing a stock phrase, and replies of at
// most maxWords words all count. The word-count rule fires on short,
// specific answers too; the knowledge base only replaces a reply when
// it has a better match, so those false positives are harmless.
func LooksGeneric(reply string, maxWords int) bool {
	if strings.TrimSpace(reply) == "" {
		return true
	}
	t := strings.ToLower(reply)
	for _, p := range genericPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return len(strings.Fields(reply)) <= maxWords
}
