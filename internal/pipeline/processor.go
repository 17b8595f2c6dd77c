// Package pipeline implements the asynchronous scan processing: fetch
// the uploaded document from object storage, extract its text with Tika,
// store the result and index it for search.
package pipeline

import (
	"context"
	"fmt"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/es"
	"assistant-go/pkg/events"
	"assistant-go/pkg/log"
	"assistant-go/pkg/storage"
	"assistant-go/pkg/tasks"
	"assistant-go/pkg/tika"
)

// Processor consumes scan tasks from the queue.
type Processor struct {
	inboxRepo  repository.InboxRepository
	tikaClient *tika.Client
	emitter    events.Emitter
}

// NewProcessor creates a new scan Processor.
func NewProcessor(inboxRepo repository.InboxRepository, tikaClient *tika.Client, emitter events.Emitter) *Processor {
	return &Processor{inboxRepo: inboxRepo, tikaClient: tikaClient, emitter: emitter}
}

// Process handles one scan task. A failed extraction marks the item
// failed and returns the error so the consumer can apply its retry
// policy.
func (p *Processor) Process(ctx context.Context, task tasks.ScanProcessingTask) error {
	item, err := p.inboxRepo.FindAnyByID(task.ItemID)
	if err != nil {
		return fmt.Errorf("inbox item %d not found: %w", task.ItemID, err)
	}
	if item.Status == model.InboxStatusProcessed {
		log.Infof("inbox item %d already processed, skipping", item.ID)
		return nil
	}

	object, err := storage.GetObject(ctx, task.ObjectKey)
	if err != nil {
		return p.fail(ctx, task, fmt.Errorf("failed to fetch object '%s': %w", task.ObjectKey, err))
	}
	defer object.Close()

	text, err := p.tikaClient.ExtractText(object, task.FileName)
	if err != nil {
		return p.fail(ctx, task, fmt.Errorf("text extraction failed: %w", err))
	}

	if err := p.inboxRepo.MarkProcessed(task.ItemID, text); err != nil {
		return fmt.Errorf("failed to store extracted text: %w", err)
	}

	doc := model.SearchDocument{
		DocType:   model.SearchDocInbox,
		DocID:     task.ItemID,
		UserID:    task.UserID,
		Title:     task.FileName,
		Content:   text,
		CreatedAt: item.CreatedAt,
	}
	if err := es.IndexDocument(ctx, doc); err != nil {
		// The item is processed either way; search indexing is best effort.
		log.Warnf("failed to index inbox item %d: %v", task.ItemID, err)
	}

	p.emitter.Emit(ctx, events.Event{
		Type:   events.TypeScanProcessed,
		UserID: task.UserID,
		Payload: map[string]interface{}{
			"item_id":   task.ItemID,
			"file_name": task.FileName,
			"chars":     len(text),
		},
	})
	log.Infof("inbox item %d processed (%d chars extracted)", task.ItemID, len(text))
	return nil
}

func (p *Processor) fail(ctx context.Context, task tasks.ScanProcessingTask, cause error) error {
	if err := p.inboxRepo.MarkFailed(task.ItemID, cause.Error()); err != nil {
		log.Errorf("failed to mark inbox item %d as failed: %v", task.ItemID, err)
	}
	p.emitter.Emit(ctx, events.Event{
		Type:   events.TypeScanFailed,
		UserID: task.UserID,
		Payload: map[string]interface{}{
			"item_id": task.ItemID,
			"error":   cause.Error(),
		},
	})
	return cause
}
