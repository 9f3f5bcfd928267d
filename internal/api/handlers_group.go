package api

import "CareLink/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	MessageHandler      *handler.MessageHandler
	AnnouncementHandler *handler.AnnouncementHandler
	BadgeHandler        *handler.BadgeHandler
	MediaHandler        *handler.MediaHandler
}
