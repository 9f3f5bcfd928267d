package service

import (
	"CareLink/internal/api/config"
	"CareLink/internal/model"
	"CareLink/internal/pkg/consts"
	"CareLink/internal/pkg/security"
	"testing"
	"time"
)

func testApplication(workerID, facilityID uint64, status string) *model.Application {
	return &model.Application{
		ID:       1,
		WorkerID: workerID,
		Status:   status,
		Worker:   model.Worker{ID: workerID, Name: "田中 花子", AvatarURL: "https://cdn/w.png"},
		WorkDate: model.WorkDate{
			WorkDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Job: model.Job{
				FacilityID: facilityID,
				Title:      "介護スタッフ（日勤）",
				Facility: model.Facility{
					ID:           facilityID,
					FacilityName: "さくら介護センター",
					StaffAvatar:  "https://cdn/f.png",
				},
			},
		},
	}
}

func TestCounterpartyOf(t *testing.T) {
	app := testApplication(10, 20, model.ApplicationScheduled)

	id, name, avatar := counterpartyOf(security.RoleWorker, app)
	if id != 20 || name != "さくら介護センター" || avatar != "https://cdn/f.png" {
		t.Errorf("worker view = (%d, %q, %q)", id, name, avatar)
	}

	id, name, avatar = counterpartyOf(security.RoleFacility, app)
	if id != 10 || name != "田中 花子" || avatar != "https://cdn/w.png" {
		t.Errorf("facility view = (%d, %q, %q)", id, name, avatar)
	}
}

func TestFacilityDisplayName(t *testing.T) {
	f := &model.Facility{FacilityName: "正式名", DisplayName: ""}
	if got := facilityDisplayName(f); got != "正式名" {
		t.Errorf("fallback = %q", got)
	}
	f.DisplayName = "表示名"
	if got := facilityDisplayName(f); got != "表示名" {
		t.Errorf("display name = %q", got)
	}
}

func TestThreadOf(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"any scheduled wins", []string{model.ApplicationCompleted, model.ApplicationScheduled}, consts.ThreadScheduled},
		{"all completed", []string{model.ApplicationCompleted, model.ApplicationCanceled}, consts.ThreadCompleted},
		{"empty", nil, consts.ThreadCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := make([]*model.Application, 0, len(tt.statuses))
			for _, st := range tt.statuses {
				apps = append(apps, testApplication(10, 20, st))
			}
			if got := threadOf(apps); got != tt.want {
				t.Errorf("threadOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppInvolves(t *testing.T) {
	app := testApplication(10, 20, model.ApplicationScheduled)

	tests := []struct {
		name    string
		role    string
		actorID uint64
		want    bool
	}{
		{"own worker", security.RoleWorker, 10, true},
		{"other worker", security.RoleWorker, 11, false},
		{"own facility", security.RoleFacility, 20, true},
		{"other facility", security.RoleFacility, 21, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := appInvolves(tt.role, tt.actorID, app); got != tt.want {
				t.Errorf("appInvolves = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreviewOf(t *testing.T) {
	config.Cfg = &config.Config{Message: config.MessageConfig{PreviewLength: 5}}

	tests := []struct {
		name string
		msg  *model.Message
		want string
	}{
		{"short text", &model.Message{Content: "こんにちは"}, "こんにちは"},
		{"truncated", &model.Message{Content: "こんにちは、田中です"}, "こんにちは…"},
		{"attachment only", &model.Message{Attachments: model.AttachmentList{"https://x/y.png"}}, "添付ファイルが届きました"},
		{"empty", &model.Message{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := previewOf(tt.msg); got != tt.want {
				t.Errorf("previewOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBadgeMessageKey(t *testing.T) {
	if got := badgeMessageKey(security.RoleWorker, 42); got != consts.BadgeMessageKey+"WORKER:42" {
		t.Errorf("key = %q", got)
	}
}
