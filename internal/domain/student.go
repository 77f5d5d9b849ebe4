package domain

import "strings"

// StudentRecord is a read-only student row keyed by username.
// Records are loaded once at startup; agents never mutate them.
type StudentRecord struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	OrientationDone string `json:"orientation_done"`
	AccessCode      string `json:"access_codes"`
}

// IsZero reports whether the record is the empty record returned for
// unknown usernames.
func (r StudentRecord) IsZero() bool {
	return r.Username == ""
}

// OrientationComplete reports whether the orientation flag is set.
// CSV sources capitalize the flag inconsistently, so the comparison
// ignores case.
func (r StudentRecord) OrientationComplete() bool {
	return strings.EqualFold(r.OrientationDone, "yes")
}
