package job

import (
	"CareLink/internal/pkg/consts"
	"testing"
)

func TestParseBadgeKey(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		key     string
		role    string
		actorID uint64
		ok      bool
	}{
		{"worker message key", consts.BadgeMessageKey, consts.BadgeMessageKey + "WORKER:42", "WORKER", 42, true},
		{"facility message key", consts.BadgeMessageKey, consts.BadgeMessageKey + "FACILITY:7", "FACILITY", 7, true},
		{"worker announcement key", consts.BadgeAnnouncementKey, consts.BadgeAnnouncementKey + "WORKER:42", "WORKER", 42, true},
		{"facility announcement key", consts.BadgeAnnouncementKey, consts.BadgeAnnouncementKey + "FACILITY:9", "FACILITY", 9, true},
		{"missing id", consts.BadgeMessageKey, consts.BadgeMessageKey + "WORKER", "", 0, false},
		{"non-numeric id", consts.BadgeMessageKey, consts.BadgeMessageKey + "WORKER:abc", "", 0, false},
		{"extra segments", consts.BadgeMessageKey, consts.BadgeMessageKey + "WORKER:1:2", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, actorID, ok := parseBadgeKey(tt.prefix, tt.key)
			if ok != tt.ok || role != tt.role || actorID != tt.actorID {
				t.Errorf("parseBadgeKey(%q, %q) = (%q, %d, %v), want (%q, %d, %v)",
					tt.prefix, tt.key, role, actorID, ok, tt.role, tt.actorID, tt.ok)
			}
		})
	}
}
