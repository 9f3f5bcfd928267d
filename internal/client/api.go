package client

import (
	"CareLink/internal/api/dto"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// MessagingAPI 客户端消费的远端接口契约
type MessagingAPI interface {
	ListConversations(ctx context.Context) ([]*dto.ConversationDTO, error)
	GetMessages(ctx context.Context, counterpartyID, cursor uint64, markAsRead bool) (*dto.MessagesPageDTO, error)
	SendMessage(ctx context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	MarkConversationRead(ctx context.Context, counterpartyID uint64) error
	ListAnnouncements(ctx context.Context, page, pageSize int) ([]*dto.AnnouncementDTO, error)
	MarkAnnouncementRead(ctx context.Context, announcementID string) error
	GetBadges(ctx context.Context) (*dto.BadgeDTO, error)
	UploadFile(ctx context.Context, filename string, reader io.Reader) (*dto.MediaUploadDTO, error)
}

type httpAPI struct {
	http *resty.Client
}

// NewAPI 构造基于 HTTP 的接口实现
func NewAPI(baseURL, token string) MessagingAPI {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/json")
	return &httpAPI{http: c}
}

// envelope 服务端统一响应封装，Data 延迟解码
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode 校验业务码并将 Data 解码到 out
func decode(resp *resty.Response, out interface{}) error {
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("http status %d", resp.StatusCode())
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return err
	}
	if env.Code != 200 {
		return fmt.Errorf("api error %d: %s", env.Code, env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (s *httpAPI) ListConversations(ctx context.Context) ([]*dto.ConversationDTO, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/api/messages/conversations")
	if err != nil {
		return nil, err
	}

	var list []*dto.ConversationDTO
	if err = decode(resp, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *httpAPI) GetMessages(ctx context.Context, counterpartyID, cursor uint64, markAsRead bool) (*dto.MessagesPageDTO, error) {
	req := s.http.R().SetContext(ctx).
		SetQueryParam("counterparty_id", strconv.FormatUint(counterpartyID, 10)).
		SetQueryParam("mark_as_read", strconv.FormatBool(markAsRead))
	if cursor > 0 {
		req.SetQueryParam("cursor", strconv.FormatUint(cursor, 10))
	}

	resp, err := req.Get("/api/messages/detail")
	if err != nil {
		return nil, err
	}

	var page dto.MessagesPageDTO
	if err = decode(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *httpAPI) SendMessage(ctx context.Context, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	resp, err := s.http.R().SetContext(ctx).
		SetBody(req).
		Post("/api/messages/send")
	if err != nil {
		return nil, err
	}

	var result dto.SendMessageResp
	if err = decode(resp, &result); err != nil {
		return nil, err
	}
	return result.Message, nil
}

func (s *httpAPI) MarkConversationRead(ctx context.Context, counterpartyID uint64) error {
	resp, err := s.http.R().SetContext(ctx).
		SetBody(&dto.MarkConversationReadReq{CounterpartyID: counterpartyID}).
		Post("/api/messages/read")
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (s *httpAPI) ListAnnouncements(ctx context.Context, page, pageSize int) ([]*dto.AnnouncementDTO, error) {
	resp, err := s.http.R().SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("page_size", strconv.Itoa(pageSize)).
		Get("/api/messages/announcements")
	if err != nil {
		return nil, err
	}

	var list []*dto.AnnouncementDTO
	if err = decode(resp, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *httpAPI) MarkAnnouncementRead(ctx context.Context, announcementID string) error {
	resp, err := s.http.R().SetContext(ctx).
		SetBody(&dto.MarkAnnouncementReadReq{AnnouncementID: announcementID}).
		Post("/api/messages/announcements/read")
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (s *httpAPI) GetBadges(ctx context.Context) (*dto.BadgeDTO, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/api/badges")
	if err != nil {
		return nil, err
	}

	var badges dto.BadgeDTO
	if err = decode(resp, &badges); err != nil {
		return nil, err
	}
	return &badges, nil
}

func (s *httpAPI) UploadFile(ctx context.Context, filename string, reader io.Reader) (*dto.MediaUploadDTO, error) {
	resp, err := s.http.R().SetContext(ctx).
		SetFileReader("file", filename, reader).
		Post("/api/media/upload")
	if err != nil {
		return nil, err
	}

	var result dto.MediaUploadDTO
	if err = decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
