package client

import (
	"CareLink/internal/api/dto"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func envelopeOK(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto.Response{Code: 200, Message: "success", Data: data}); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
}

func TestHTTPAPIGetMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/messages/detail" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("auth header = %q", got)
		}
		q := r.URL.Query()
		if q.Get("counterparty_id") != "7" || q.Get("cursor") != "100" || q.Get("mark_as_read") != "false" {
			t.Errorf("query = %v", q)
		}
		envelopeOK(t, w, &dto.MessagesPageDTO{
			CounterpartyID: 7,
			Messages:       []*dto.MessageDTO{{ID: 90}, {ID: 95}},
			NextCursor:     80,
			HasMore:        true,
		})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, "token-123")
	page, err := api.GetMessages(context.Background(), 7, 100, false)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(page.Messages) != 2 || page.NextCursor != 80 || !page.HasMore {
		t.Errorf("page = %+v", page)
	}
}

func TestHTTPAPISendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/messages/send" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var req dto.SendMessageReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.CounterpartyID != 7 || req.Content != "hello" {
			t.Errorf("request = %+v", req)
		}
		envelopeOK(t, w, &dto.SendMessageResp{Message: &dto.MessageDTO{ID: 42, Content: "hello"}})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, "token-123")
	msg, err := api.SendMessage(context.Background(), &dto.SendMessageReq{CounterpartyID: 7, Content: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ID != 42 {
		t.Errorf("confirmed id = %d, want 42", msg.ID)
	}
}

func TestHTTPAPIBusinessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelopeOK(t, w, nil)
	}))
	defer srv.Close()

	errSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.Response{Code: 401, Message: "Token 無効"})
	}))
	defer errSrv.Close()

	api := NewAPI(errSrv.URL, "expired")
	if _, err := api.ListConversations(context.Background()); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("business error not surfaced: %v", err)
	}

	okAPI := NewAPI(srv.URL, "token")
	if err := okAPI.MarkConversationRead(context.Background(), 7); err != nil {
		t.Errorf("MarkConversationRead with empty data: %v", err)
	}
}

func TestHTTPAPIUploadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "photo.png" {
			t.Errorf("filename = %s", header.Filename)
		}
		envelopeOK(t, w, &dto.MediaUploadDTO{URL: "https://cdn/photo.png", Mime: "image/png"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, "token")
	result, err := api.UploadFile(context.Background(), "photo.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if result.URL != "https://cdn/photo.png" {
		t.Errorf("url = %s", result.URL)
	}
}
