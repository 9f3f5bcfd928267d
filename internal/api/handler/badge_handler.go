package handler

import (
	"CareLink/internal/api/dto"
	"CareLink/internal/pkg/response"
	"CareLink/internal/service"

	"github.com/gin-gonic/gin"
)

type BadgeHandler struct {
	messageService      service.MessageService
	announcementService service.AnnouncementService
}

func NewBadgeHandler(messageService service.MessageService, announcementService service.AnnouncementService) *BadgeHandler {
	return &BadgeHandler{
		messageService:      messageService,
		announcementService: announcementService,
	}
}

// GetBadges 全局未读角标接口（消息 + 公告）
func (s *BadgeHandler) GetBadges(c *gin.Context) {
	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	unreadMessages, err := s.messageService.GetUnreadTotal(c, role, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	unreadAnnouncements, err := s.announcementService.GetUnreadCount(c, role, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BadgeDTO{
		UnreadMessages:      unreadMessages,
		UnreadAnnouncements: unreadAnnouncements,
	})
}
