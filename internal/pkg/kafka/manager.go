package kafka

import (
	"CareLink/internal/api/config"
	"CareLink/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	announceConsumer sarama.ConsumerGroup
	announceHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, annService service.AnnouncementService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	announceConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaAnnounceConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	announceHandler := NewAnnounceHandler(annService)

	return &ConsumerManager{
		announceConsumer: announceConsumer,
		announceHandler:  announceHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Announce Consumer
	go func() {
		topic := cfg.KafkaAnnounceConsumer.Topic
		log.Info("Announce consumer started", "topic", topic)
		for {
			if err := m.announceConsumer.Consume(ctx, []string{topic}, m.announceHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.announceConsumer.Close(); err != nil {
		log.Error("Failed to close announce consumer", "err", err)
	}

	return nil
}
