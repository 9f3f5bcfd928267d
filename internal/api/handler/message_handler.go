package handler

import (
	"CareLink/internal/api/dto"
	"CareLink/internal/pkg/response"
	"CareLink/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// GetConversations 会话列表接口
func (s *MessageHandler) GetConversations(c *gin.Context) {
	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	res, err := s.messageService.GetConversations(c, role, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetHistory 历史消息接口（游标分页）
func (s *MessageHandler) GetHistory(c *gin.Context) {
	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	counterpartyID, _ := strconv.ParseUint(c.Query("counterparty_id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	markAsRead := c.DefaultQuery("mark_as_read", "false") == "true"

	if counterpartyID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.messageService.GetHistory(c, role, actorID, counterpartyID, cursor, markAsRead)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendMessage 发送消息接口
func (s *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	res, err := s.messageService.SendMessage(c, role, actorID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.SendMessageResp{Message: res})
}

// MarkConversationRead 会话已读接口
func (s *MessageHandler) MarkConversationRead(c *gin.Context) {
	var req dto.MarkConversationReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	if err := s.messageService.MarkConversationRead(c, role, actorID, req.CounterpartyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
