package wire

import (
	"CareLink/internal/api"
	"CareLink/internal/api/config"
	"CareLink/internal/api/handler"
	"CareLink/internal/job"
	"CareLink/internal/pkg/cron"
	"CareLink/internal/pkg/kafka"
	"CareLink/internal/pkg/mongo"
	"CareLink/internal/repository"
	"CareLink/internal/service"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
}

func BuildApplication(db *gorm.DB, mongoConn *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	appRepo := repository.NewApplicationRepo(db)
	msgRepo := repository.NewMessageRepo(db)
	annRepo := mongo.NewAnnouncementRepo(mongoConn)

	messageService := service.NewMessageService(appRepo, msgRepo)
	announcementService := service.NewAnnouncementService(annRepo)

	handlers := &api.HandlersGroup{
		MessageHandler:      handler.NewMessageHandler(messageService),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService),
		BadgeHandler:        handler.NewBadgeHandler(messageService, announcementService),
		MediaHandler:        handler.NewMediaHandler(),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewBadgeRecountJob(msgRepo, annRepo))

	kafkaMgr, err := kafka.NewConsumerManager(cfg, announcementService)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
	}, nil
}
