package client

import "testing"

func TestBadgeCounterFloor(t *testing.T) {
	tests := []struct {
		name              string
		run               func(c BadgeCounter)
		wantMsgs, wantAnn int64
	}{
		{
			"decrement clamps at zero",
			func(c BadgeCounter) {
				c.Set(2, 1)
				c.MessageDelta(-5)
				c.AnnouncementDelta(-1)
			},
			0, 0,
		},
		{
			"set rejects negative",
			func(c BadgeCounter) { c.Set(-3, -1) },
			0, 0,
		},
		{
			"mixed deltas",
			func(c BadgeCounter) {
				c.MessageDelta(4)
				c.MessageDelta(-1)
				c.AnnouncementDelta(2)
			},
			3, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBadgeCounter()
			tt.run(c)
			msgs, ann := c.Snapshot()
			if msgs != tt.wantMsgs || ann != tt.wantAnn {
				t.Errorf("snapshot = (%d, %d), want (%d, %d)", msgs, ann, tt.wantMsgs, tt.wantAnn)
			}
		})
	}
}
