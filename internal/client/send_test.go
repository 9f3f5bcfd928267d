package client

import (
	"CareLink/internal/api/dto"
	"context"
	"errors"
	"testing"
	"time"
)

func newLoadedStore(t *testing.T, api *fakeAPI) *ChatStore {
	t.Helper()
	if api.getMessages == nil {
		api.getMessages = func(_ context.Context, _, cursor uint64, _ bool) (*dto.MessagesPageDTO, error) {
			if cursor == 0 {
				return pageOf([]uint64{100, 110}, 0, false), nil
			}
			return pageOf(nil, 0, false), nil
		}
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")
	if err := store.SelectConversation(context.Background(), 7); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}
	return store
}

func TestSendOptimisticConfirm(t *testing.T) {
	confirmedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		sendMessage: func(_ context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
			if req.ApplicationID != 1 {
				t.Errorf("resolved application = %d, want 1", req.ApplicationID)
			}
			return &dto.MessageDTO{
				ID:            42,
				ApplicationID: req.ApplicationID,
				SenderRole:    "WORKER",
				Content:       req.Content,
				Attachments:   req.Attachments,
				CreatedAt:     confirmedAt,
			}, nil
		},
	}
	store := newLoadedStore(t, api)
	before := len(store.Messages())

	msg, err := store.Send(context.Background(), "", []string{"https://x/y.png"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	window := store.Messages()
	if len(window) != before+1 {
		t.Fatalf("window length = %d, want %d", len(window), before+1)
	}
	last := window[len(window)-1]
	if last != msg {
		t.Error("confirmed message is not the original placeholder")
	}
	if msg.ID != 42 || msg.SendStatus != StatusSent {
		t.Errorf("message = {id:%d status:%s}, want {id:42 status:sent}", msg.ID, msg.SendStatus)
	}
	if !msg.CreatedAt.Equal(confirmedAt) {
		t.Errorf("timestamp = %v, want %v", msg.CreatedAt, confirmedAt)
	}
	if msg.Retry != nil {
		t.Error("retry payload should be discarded after confirmation")
	}
	if msg.Content != "" || len(msg.Attachments) != 1 {
		t.Errorf("content/attachments mutated: %q %v", msg.Content, msg.Attachments)
	}
}

func TestSendTriggersHistoryRefresh(t *testing.T) {
	historyCalls := 0
	sent := false
	api := &fakeAPI{
		sendMessage: func(_ context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
			sent = true
			return &dto.MessageDTO{ID: 120, ApplicationID: req.ApplicationID, SenderRole: "WORKER", Content: req.Content, CreatedAt: time.Now()}, nil
		},
	}
	api.getMessages = func(_ context.Context, _, _ uint64, _ bool) (*dto.MessagesPageDTO, error) {
		historyCalls++
		if sent {
			// 发送期间对方落库的 105 随刷新一起到达
			return pageOf([]uint64{100, 105, 110, 120}, 0, false), nil
		}
		return pageOf([]uint64{100, 110}, 0, false), nil
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")
	if err := store.SelectConversation(context.Background(), 7); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}
	if historyCalls != 1 {
		t.Fatalf("history fetches before send = %d, want 1", historyCalls)
	}

	msg, err := store.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if historyCalls != 2 {
		t.Fatalf("history fetches after send = %d, want 2", historyCalls)
	}
	want := []int64{100, 105, 110, 120}
	if got := windowIDs(store); !equalIDs(got, want) {
		t.Errorf("window after refresh = %v, want %v", got, want)
	}
	window := store.Messages()
	if window[len(window)-1] != msg {
		t.Error("refresh must not replace the confirmed message pointer")
	}
}

func TestRefreshLatestKeepsPendingTail(t *testing.T) {
	api := &fakeAPI{
		sendMessage: func(context.Context, *dto.SendMessageReq) (*dto.MessageDTO, error) {
			return nil, errors.New("boom")
		},
	}
	store := newLoadedStore(t, api)

	failed, _ := store.Send(context.Background(), "hello", nil)
	if failed.SendStatus != StatusFailed {
		t.Fatalf("status = %s, want failed", failed.SendStatus)
	}

	api.getMessages = func(_ context.Context, _, _ uint64, _ bool) (*dto.MessagesPageDTO, error) {
		return pageOf([]uint64{100, 105, 110}, 0, false), nil
	}
	if err := store.RefreshLatest(context.Background()); err != nil {
		t.Fatalf("RefreshLatest: %v", err)
	}

	want := []int64{100, 105, 110, failed.ID}
	if got := windowIDs(store); !equalIDs(got, want) {
		t.Errorf("window after refresh = %v, want %v", got, want)
	}
}

func TestSendValidation(t *testing.T) {
	store := newLoadedStore(t, &fakeAPI{})

	tests := []struct {
		name        string
		text        string
		attachments []string
		wantErr     error
	}{
		{"empty text and no attachments", "   ", nil, ErrEmptyMessage},
		{"too many attachments", "hi", []string{"a", "b", "c", "d"}, ErrTooManyAttachments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(store.Messages())
			if _, err := store.Send(context.Background(), tt.text, tt.attachments); !errors.Is(err, tt.wantErr) {
				t.Errorf("Send error = %v, want %v", err, tt.wantErr)
			}
			if len(store.Messages()) != before {
				t.Error("rejected send must not touch the window")
			}
		})
	}
}

func TestSendWithoutTarget(t *testing.T) {
	// 目录和历史都没有应募可回退
	api := &fakeAPI{
		getMessages: func(context.Context, uint64, uint64, bool) (*dto.MessagesPageDTO, error) {
			return &dto.MessagesPageDTO{}, nil
		},
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")
	if err := store.SelectConversation(context.Background(), 7); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}

	if _, err := store.Send(context.Background(), "hello", nil); !errors.Is(err, ErrNoSendTarget) {
		t.Errorf("Send error = %v, want %v", err, ErrNoSendTarget)
	}
}

func TestSendFallsBackToHistoryApplication(t *testing.T) {
	// 目录未提供应募，但窗口内的消息携带了应募 ID
	api := &fakeAPI{
		getMessages: func(context.Context, uint64, uint64, bool) (*dto.MessagesPageDTO, error) {
			return &dto.MessagesPageDTO{Messages: []*dto.MessageDTO{msgDTO(100)}}, nil
		},
		sendMessage: func(_ context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
			if req.ApplicationID != 1 {
				t.Errorf("fallback application = %d, want 1", req.ApplicationID)
			}
			return msgDTO(101), nil
		},
	}
	store := NewChatStore(api, NewBadgeCounter(), "WORKER")
	if err := store.SelectConversation(context.Background(), 7); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}

	if _, err := store.Send(context.Background(), "hello", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestSendFailureThenRetry(t *testing.T) {
	fail := true
	api := &fakeAPI{
		sendMessage: func(_ context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return &dto.MessageDTO{ID: 55, Content: req.Content, CreatedAt: time.Now()}, nil
		},
	}
	store := newLoadedStore(t, api)

	msg, err := store.Send(context.Background(), "hello", nil)
	if err == nil {
		t.Fatal("Send should surface the transport error")
	}
	if msg.SendStatus != StatusFailed {
		t.Fatalf("status = %s, want failed", msg.SendStatus)
	}
	if msg.Retry == nil || msg.Retry.Content != "hello" {
		t.Fatal("failed message must retain its retry payload")
	}
	if msg.ID >= 0 {
		t.Errorf("placeholder id = %d, want negative", msg.ID)
	}
	lengthAfterFail := len(store.Messages())

	fail = false
	if err = store.Retry(context.Background(), msg.ID); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if msg.SendStatus != StatusSent || msg.ID != 55 {
		t.Errorf("after retry = {id:%d status:%s}, want {id:55 status:sent}", msg.ID, msg.SendStatus)
	}
	if len(store.Messages()) != lengthAfterFail {
		t.Error("retry must never create a second message")
	}
}

func TestRetryOnlyFailed(t *testing.T) {
	api := &fakeAPI{
		sendMessage: func(_ context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
			return &dto.MessageDTO{ID: 55, Content: req.Content, CreatedAt: time.Now()}, nil
		},
	}
	store := newLoadedStore(t, api)

	msg, err := store.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err = store.Retry(context.Background(), msg.ID); !errors.Is(err, ErrNotRetryable) {
		t.Errorf("Retry on sent message = %v, want %v", err, ErrNotRetryable)
	}
	if err = store.Retry(context.Background(), 9999); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("Retry on unknown id = %v, want %v", err, ErrMessageNotFound)
	}
}

func TestDiscard(t *testing.T) {
	api := &fakeAPI{
		sendMessage: func(context.Context, *dto.SendMessageReq) (*dto.MessageDTO, error) {
			return nil, errors.New("boom")
		},
	}
	store := newLoadedStore(t, api)

	msg, _ := store.Send(context.Background(), "hello", nil)
	before := len(store.Messages())

	if err := store.Discard(msg.ID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(store.Messages()) != before-1 {
		t.Error("failed message was not removed")
	}
	if err := store.Discard(msg.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("second Discard = %v, want %v", err, ErrMessageNotFound)
	}
}

func TestDistinctPlaceholders(t *testing.T) {
	api := &fakeAPI{
		sendMessage: func(context.Context, *dto.SendMessageReq) (*dto.MessageDTO, error) {
			return nil, errors.New("boom")
		},
	}
	store := newLoadedStore(t, api)

	first, _ := store.Send(context.Background(), "one", nil)
	second, _ := store.Send(context.Background(), "two", nil)
	if first.ID == second.ID {
		t.Errorf("placeholder ids collide: %d", first.ID)
	}
	if first.ID >= 0 || second.ID >= 0 {
		t.Errorf("placeholders must be negative: %d %d", first.ID, second.ID)
	}
}
