package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-legalcouncil-be/internal/dto"
	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/pkg/embedding"
	"ai-legalcouncil-be/pkg/utils"

	"ai-legalcouncil-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Chunking parameters for retrieval. Windows are fixed-size with overlap;
// splitting mid-sentence is fine, similarity search tolerates it.
const (
	chunkSize    = 1000
	chunkOverlap = 100
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal index message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing document %s (length: %d)", payload.DocumentId, len(payload.Text))

	// 1. Split text into fixed windows with offsets
	chunks := utils.SplitText(payload.Text, chunkSize, chunkOverlap)
	log.Printf("[INFO] Document split into %d chunks", len(chunks))

	var newEmbeddings []*entity.DocumentEmbedding

	// 2. Embed each chunk
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			Document:       chunk.Text,
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     payload.DocumentId,
			ChunkIndex:     i,
			StartOffset:    chunk.StartOffset,
			CreatedAt:      time.Now(),
		})
	}

	// 3. Persist. Chunks are append-only: no delete of earlier rows, even if
	// the same text was indexed before under another document id.
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if len(newEmbeddings) > 0 {
		if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document indexed: %d chunks for %s", len(newEmbeddings), payload.DocumentId)
	msg.Ack()
}
