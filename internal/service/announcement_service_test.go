package service

import (
	"CareLink/internal/pkg/consts"
	"testing"
)

func TestAnnounceBadgePattern(t *testing.T) {
	tests := []struct {
		name     string
		audience string
		want     string
	}{
		{"worker audience", "WORKER", consts.BadgeAnnouncementKey + "WORKER:*"},
		{"facility audience", "FACILITY", consts.BadgeAnnouncementKey + "FACILITY:*"},
		{"no audience hits every reader", "", consts.BadgeAnnouncementKey + "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := announceBadgePattern(tt.audience); got != tt.want {
				t.Errorf("announceBadgePattern(%q) = %q, want %q", tt.audience, got, tt.want)
			}
		})
	}
}
