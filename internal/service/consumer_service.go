package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"
)

// EventDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	Broadcast(event events.Event)
}

// IConsumerService drains the document.imported topic and feeds imported chat
// documents into the knowledge index.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topic      string
	knowledge  IKnowledgeService
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topic string,
	knowledge IKnowledgeService,
	delivery EventDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topic:      topic,
		knowledge:  knowledge,
		delivery:   delivery,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	cs.logger.Info("CONSUMER", "Consumer started", map[string]interface{}{"topic": cs.topic})
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.DocumentImportedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message, dropping", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("CONSUMER", "Indexing imported document", map[string]interface{}{
		"session_id": payload.SessionID,
		"source":     payload.Source,
	})

	chunks, err := cs.knowledge.IndexDocuments(ctx, []entity.DocumentInput{{
		Content: payload.Content,
		Source:  payload.Source,
		Metadata: map[string]interface{}{
			"type":       "chat_import",
			"session_id": payload.SessionID,
		},
	}})
	if err != nil {
		if apperror.IsConfiguration(err) {
			// No embedder wired, redelivery cannot fix that.
			cs.logger.Warn("CONSUMER", "Dropping document, indexing unavailable", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			return
		}
		cs.logger.Error("CONSUMER", "Failed to index document", map[string]interface{}{"source": payload.Source, "error": err.Error()})
		msg.Nack() // Nack for retriable errors
		return
	}

	if cs.delivery != nil {
		cs.delivery.Broadcast(events.NewKnowledgeIndexed(payload.Source, chunks))
	}

	cs.logger.Info("CONSUMER", "Document indexed", map[string]interface{}{"source": payload.Source, "chunks": chunks})
	msg.Ack()
}
