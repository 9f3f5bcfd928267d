package handler

import (
	"CareLink/internal/api/dto"
	"CareLink/internal/pkg/response"
	"CareLink/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// GetList 公告列表接口
func (s *AnnouncementHandler) GetList(c *gin.Context) {
	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	res, err := s.announcementService.GetList(c, role, actorID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkRead 公告已读接口
func (s *AnnouncementHandler) MarkRead(c *gin.Context) {
	var req dto.MarkAnnouncementReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	role := c.GetString("role")
	actorID := c.GetUint64("actor_id")

	if err := s.announcementService.MarkRead(c, role, actorID, req.AnnouncementID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
