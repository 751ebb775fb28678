package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"ai-legalcouncil-be/internal/dto"
)

// IndexerService hands documents to the indexing consumer over the event
// bus. Publishing is the only synchronous part; chunking and embedding
// happen on the consumer side, so the analysis path never waits for them.
type IndexerService struct {
	publisher IPublisherService
}

func NewIndexerService(publisher IPublisherService) *IndexerService {
	return &IndexerService{publisher: publisher}
}

func (s *IndexerService) IndexDocument(ctx context.Context, documentID uuid.UUID, text string) error {
	payload := dto.PublishIndexDocumentMessage{
		DocumentId: documentID,
		Text:       text,
	}
	msgJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, msgJson)
}
