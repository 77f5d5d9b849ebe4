package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestRecent(t *testing.T) {
	var s Session
	now := time.Now()
	for i := 0; i < 4; i++ {
		s.Append(RoleUser, fmt.Sprintf("msg-%d", i), now)
	}

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{-1, 0},
		{2, 2},
		{4, 4},
		{99, 4},
	}
	for _, tt := range tests {
		got := s.Recent(tt.n)
		if len(got) != tt.want {
			t.Errorf("Recent(%d) returned %d entries, want %d", tt.n, len(got), tt.want)
			continue
		}
		if tt.want > 0 && got[len(got)-1].Text != "msg-3" {
			t.Errorf("Recent(%d) last entry = %q, want msg-3", tt.n, got[len(got)-1].Text)
		}
	}
}
