package domain

import "testing"

func TestOrientationComplete(t *testing.T) {
	tests := []struct {
		flag string
		want bool
	}{
		{"yes", true},
		{"Yes", true},
		{"YES", true},
		{"no", false},
		{"No", false},
		{"", false},
		{"yess", false},
	}
	for _, tt := range tests {
		rec := StudentRecord{Username: "alice", OrientationDone: tt.flag}
		if got := rec.OrientationComplete(); got != tt.want {
			t.Errorf("OrientationComplete with flag %q = %v, want %v", tt.flag, got, tt.want)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !(StudentRecord{}).IsZero() {
		t.Error("Empty record should be zero")
	}
	if (StudentRecord{Username: "alice"}).IsZero() {
		t.Error("Record with username should not be zero")
	}
}
