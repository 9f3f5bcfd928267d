package client

import (
	"CareLink/internal/api/dto"
	"context"
	"errors"
	"testing"
)

func announcementAPI(markCalls *int) *fakeAPI {
	read := false
	return &fakeAPI{
		listAnnouncements: func(context.Context, int, int) ([]*dto.AnnouncementDTO, error) {
			return []*dto.AnnouncementDTO{
				{ID: "a1", Title: "メンテナンスのお知らせ", Category: "MAINTENANCE", IsRead: read},
				{ID: "a2", Title: "重要なお知らせ", Category: "IMPORTANT", IsRead: true},
			}, nil
		},
		markAnnouncementRead: func(_ context.Context, id string) error {
			*markCalls++
			if id == "a1" {
				read = true
			}
			return nil
		},
	}
}

func TestOpenAnnouncementMarksReadOnce(t *testing.T) {
	markCalls := 0
	badges := NewBadgeCounter()
	badges.Set(0, 5)
	reader := NewAnnouncementReader(announcementAPI(&markCalls), badges, 20)
	if err := reader.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	ann, err := reader.Open(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !ann.IsRead {
		t.Error("local read flag must flip immediately")
	}
	if _, annBadge := badges.Snapshot(); annBadge != 4 {
		t.Errorf("announcement badge = %d, want 4", annBadge)
	}
	if markCalls != 1 {
		t.Errorf("mark-read calls = %d, want 1", markCalls)
	}

	// 已读公告的再次打开是无操作
	if _, err = reader.Open(context.Background(), "a1"); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if _, annBadge := badges.Snapshot(); annBadge != 4 {
		t.Errorf("badge after second open = %d, want 4", annBadge)
	}
	if markCalls != 1 {
		t.Errorf("mark-read calls after second open = %d, want 1", markCalls)
	}
}

func TestOpenAlreadyReadAnnouncement(t *testing.T) {
	markCalls := 0
	badges := NewBadgeCounter()
	badges.Set(0, 5)
	reader := NewAnnouncementReader(announcementAPI(&markCalls), badges, 20)
	if err := reader.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := reader.Open(context.Background(), "a2"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if markCalls != 0 {
		t.Error("already-read announcement must not hit the network")
	}
	if _, annBadge := badges.Snapshot(); annBadge != 5 {
		t.Errorf("badge = %d, want 5", annBadge)
	}
}

func TestOpenUnknownAnnouncement(t *testing.T) {
	markCalls := 0
	reader := NewAnnouncementReader(announcementAPI(&markCalls), NewBadgeCounter(), 20)
	if err := reader.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := reader.Open(context.Background(), "missing"); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("Open = %v, want %v", err, ErrMessageNotFound)
	}
}

func TestRefreshFailureKeepsList(t *testing.T) {
	fail := false
	api := &fakeAPI{
		listAnnouncements: func(context.Context, int, int) ([]*dto.AnnouncementDTO, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []*dto.AnnouncementDTO{{ID: "a1"}}, nil
		},
	}
	reader := NewAnnouncementReader(api, NewBadgeCounter(), 20)
	if err := reader.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	fail = true
	if err := reader.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh should surface the error")
	}
	if got := reader.List(); len(got) != 1 {
		t.Errorf("list after failed refresh = %d entries, want previous 1", len(got))
	}
}
