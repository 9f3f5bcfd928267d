package kafka

import (
	"CareLink/internal/pkg/mongo"
	"CareLink/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// announceEvent 运营后台发布公告时投递的事件体
type announceEvent struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Audience    string    `json:"audience"`
	PublishedAt time.Time `json:"publishedAt"`
}

type AnnounceHandler struct {
	annService service.AnnouncementService
}

func NewAnnounceHandler(annService service.AnnouncementService) *AnnounceHandler {
	return &AnnounceHandler{
		annService: annService,
	}
}

func (s *AnnounceHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("announce consumer setup")
	return nil
}

func (s *AnnounceHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("announce consumer cleanup")
	return nil
}

func (s *AnnounceHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-announce consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("topic-announce consume claim end")
	return nil
}

func (s *AnnounceHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event announceEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("unmarshal announce event error", "err", err)
		return err
	}
	if event.Title == "" {
		return errors.New("announce event title is empty")
	}

	return s.annService.Publish(ctx, &mongo.AnnouncementModel{
		Title:       event.Title,
		Content:     event.Content,
		Category:    event.Category,
		Audience:    event.Audience,
		PublishedAt: event.PublishedAt,
	})
}
