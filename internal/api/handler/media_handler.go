package handler

import (
	"CareLink/internal/api/config"
	"CareLink/internal/api/dto"
	"CareLink/internal/pkg/consts"
	"CareLink/internal/pkg/minio"
	"CareLink/internal/pkg/response"
	"CareLink/internal/pkg/util"
	"CareLink/internal/service"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 聊天附件上传接口。仅接受图片，校验真实 MIME 与大小上限
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if file.Size > int64(config.Cfg.Message.MaxImageBytes) {
		response.Error(c, service.ErrFileTooLarge)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	publicURL := minio.GetPublicURL(fileKey)
	log.InfoContext(c, "Attachment uploaded", "fileKey", fileKey, "type", contentType)

	response.Success(c, &dto.MediaUploadDTO{
		URL:      publicURL,
		Mime:     contentType,
		Size:     file.Size,
		Original: file.Filename,
	})
}
