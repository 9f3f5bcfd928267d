package client

import (
	"CareLink/internal/api/dto"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func stagedImage(name string) *StagedFile {
	return &StagedFile{
		Name:        name,
		ContentType: "image/png",
		Size:        1024,
		Reader:      strings.NewReader("png-bytes"),
	}
}

func TestAttachmentCap(t *testing.T) {
	api := &fakeAPI{
		uploadFile: func(_ context.Context, filename string, _ io.Reader) (*dto.MediaUploadDTO, error) {
			return &dto.MediaUploadDTO{URL: "https://cdn/" + filename}, nil
		},
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")

	files := []*StagedFile{stagedImage("a.png"), stagedImage("b.png"), stagedImage("c.png")}
	if err := store.AddAttachments(context.Background(), files); err != nil {
		t.Fatalf("AddAttachments: %v", err)
	}
	if got := len(store.PendingAttachments()); got != 3 {
		t.Fatalf("pending = %d, want 3", got)
	}

	// 第 4 件在任何上传发起前被拒绝
	if err := store.AddAttachments(context.Background(), []*StagedFile{stagedImage("d.png")}); !errors.Is(err, ErrTooManyAttachments) {
		t.Errorf("AddAttachments = %v, want %v", err, ErrTooManyAttachments)
	}
	if got := len(store.PendingAttachments()); got != 3 {
		t.Errorf("pending after rejection = %d, want 3", got)
	}
}

func TestAttachmentValidationBeforeUpload(t *testing.T) {
	uploads := 0
	api := &fakeAPI{
		uploadFile: func(context.Context, string, io.Reader) (*dto.MediaUploadDTO, error) {
			uploads++
			return &dto.MediaUploadDTO{URL: "https://cdn/x"}, nil
		},
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")

	tests := []struct {
		name    string
		file    *StagedFile
		wantErr error
	}{
		{
			"non-image mime",
			&StagedFile{Name: "x.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("")},
			ErrFileNotSupported,
		},
		{
			"over size ceiling",
			&StagedFile{Name: "x.png", ContentType: "image/png", Size: 6 << 20, Reader: strings.NewReader("")},
			ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.AddAttachments(context.Background(), []*StagedFile{tt.file}); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddAttachments = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if uploads != 0 {
		t.Errorf("uploads = %d, validation must run before any upload", uploads)
	}
}

func TestPartialUploadFailureKeepsSuccesses(t *testing.T) {
	api := &fakeAPI{
		uploadFile: func(_ context.Context, filename string, _ io.Reader) (*dto.MediaUploadDTO, error) {
			if filename == "bad.png" {
				return nil, errors.New("storage unavailable")
			}
			return &dto.MediaUploadDTO{URL: "https://cdn/" + filename}, nil
		},
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")

	files := []*StagedFile{stagedImage("good.png"), stagedImage("bad.png")}
	err := store.AddAttachments(context.Background(), files)
	if err == nil {
		t.Fatal("AddAttachments should report the failed upload")
	}

	pending := store.PendingAttachments()
	if len(pending) != 1 || pending[0] != "https://cdn/good.png" {
		t.Errorf("pending = %v, successful upload must be kept", pending)
	}
}

func TestRemoveAndTakeAttachments(t *testing.T) {
	api := &fakeAPI{
		uploadFile: func(_ context.Context, filename string, _ io.Reader) (*dto.MediaUploadDTO, error) {
			return &dto.MediaUploadDTO{URL: "https://cdn/" + filename}, nil
		},
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")

	if err := store.AddAttachments(context.Background(), []*StagedFile{stagedImage("a.png"), stagedImage("b.png")}); err != nil {
		t.Fatalf("AddAttachments: %v", err)
	}

	store.RemoveAttachment(0)
	if got := store.PendingAttachments(); len(got) != 1 || got[0] != "https://cdn/b.png" {
		t.Errorf("pending after remove = %v", got)
	}

	store.RemoveAttachment(5) // 越界为无操作
	taken := store.TakeAttachments()
	if len(taken) != 1 {
		t.Errorf("taken = %v, want 1 url", taken)
	}
	if got := store.PendingAttachments(); len(got) != 0 {
		t.Errorf("pending after take = %v, want empty", got)
	}
}
