// Package tools holds the lookup and side-effect operations available to
// agents.
package tools

import (
	"regexp"
	"strings"
	"time"

	"github.com/ashureev/campus-concierge/internal/domain"
	"github.com/ashureev/campus-concierge/internal/memory"
)

// faqTable backs the canned search tool. Extend as needed.
var faqTable = []struct {
	q, a string
}{
	{"how to take exam", "Open LockDown Browser, go to module, click Start Exam."},
	{"ms365", "Sign in at portal.office.com using your college email."},
	{"how to login", "Use your college username and password; reset via the portal if needed."},
}

// NoSearchHit is returned by Search when nothing in the FAQ table matches.
const NoSearchHit = "No direct FAQ hit. Try specifics or provide username."

// EventRecord is one entry in the message log kept in the store's globals bag.
type EventRecord struct {
	Timestamp time.Time `json:"ts"`
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
}

// Toolset is the set of operations agents can call. Student records are a
// read-only snapshot loaded once before serving; the store is the only
// mutable dependency, and it serializes access itself, so the toolset is
// safe under concurrent invocation from a parallel composite.
type Toolset struct {
	students map[string]domain.StudentRecord
	store    *memory.Store
}

// New builds a toolset over a student snapshot and the session store.
func New(students []domain.StudentRecord, store *memory.Store) *Toolset {
	byName := make(map[string]domain.StudentRecord, len(students))
	for _, rec := range students {
		byName[rec.Username] = rec
	}
	return &Toolset{students: byName, store: store}
}

// StudentLookup returns the record for username. Absent usernames yield
// the empty record, not an error.
func (t *Toolset) StudentLookup(username string) domain.StudentRecord {
	if username == "" {
		return domain.StudentRecord{}
	}
	return t.students[username]
}

var nonWord = regexp.MustCompile(`[^\w\s]`)
var spaces = regexp.MustCompile(`\s+`)

func normalize(text string) string {
	t := strings.ToLower(text)
	t = nonWord.ReplaceAllString(t, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(t, " "))
}

// Search answers FAQ-like queries from the canned table. Scoring is token
// overlap against each question, with an exact token-cover short-circuit
// and a substring check as last resort.
func (t *Toolset) Search(query string) string {
	qnorm := normalize(query)
	if qnorm == "" {
		return "No query provided."
	}

	qtokens := tokenSet(qnorm)
	bestScore := 0.0
	bestAnswer := ""
	for _, faq := range faqTable {
		ktoks := tokenSet(normalize(faq.q))
		if len(ktoks) == 0 {
			continue
		}
		shared := 0
		for tok := range ktoks {
			if qtokens[tok] {
				shared++
			}
		}
		score := float64(shared) / float64(len(ktoks))
		if score == 1.0 {
			return faq.a
		}
		if score > bestScore {
			bestScore = score
			bestAnswer = faq.a
		}
	}
	if bestScore >= 0.5 && bestAnswer != "" {
		return bestAnswer
	}

	for _, faq := range faqTable {
		if strings.Contains(qnorm, normalize(faq.q)) {
			return faq.a
		}
	}
	return NoSearchHit
}

// LogEvent appends a record to the message log in the store's globals bag.
func (t *Toolset) LogEvent(channel, message string) error {
	history, _ := t.store.GetGlobal("events").([]any)
	history = append(history, EventRecord{
		Timestamp: time.Now().UTC(),
		Channel:   channel,
		Message:   message,
	})
	return t.store.SetGlobal("events", history)
}

// APIResult is the shape returned by the stub external-API call.
type APIResult struct {
	OK      bool           `json:"ok"`
	Path    string         `json:"path"`
	Method  string         `json:"method"`
	Payload map[string]any `json:"payload,omitempty"`
}

// APICall is a stub external-API integration point. It returns a canned
// result; swap in a real base URL and auth to make it live.
func (t *Toolset) APICall(path, method string, payload map[string]any) APIResult {
	if method == "" {
		method = "GET"
	}
	return APIResult{OK: true, Path: path, Method: method, Payload: payload}
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		out[tok] = true
	}
	return out
}
