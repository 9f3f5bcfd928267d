package api

import (
	"CareLink/internal/api/middleware"
	"CareLink/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// 消息：工作者端与设施端共用，视角由 Token 角色决定
		messagesGroup := apiGroup.Group("/messages")
		messagesGroup.Use(middleware.AuthMiddleware())
		{
			messagesGroup.GET("/conversations", group.MessageHandler.GetConversations)
			messagesGroup.GET("/detail", group.MessageHandler.GetHistory)
			messagesGroup.POST("/send", group.MessageHandler.SendMessage)
			messagesGroup.POST("/read", group.MessageHandler.MarkConversationRead)

			messagesGroup.GET("/announcements", group.AnnouncementHandler.GetList)
			messagesGroup.POST("/announcements/read", group.AnnouncementHandler.MarkRead)
		}

		badgeGroup := apiGroup.Group("/badges")
		badgeGroup.Use(middleware.AuthMiddleware())
		{
			badgeGroup.GET("", group.BadgeHandler.GetBadges)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
