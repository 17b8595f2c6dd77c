package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
	"assistant-go/pkg/events"
	"assistant-go/pkg/kafka"
	"assistant-go/pkg/storage"
	"assistant-go/pkg/tasks"
	"assistant-go/pkg/token"
)

// Scan types accepted for inbox uploads.
const (
	ScanTypeDocument = "document"
	ScanTypePhoto    = "photo"
)

// InboxService handles scanned document intake: the file goes to object
// storage, the item row is created as pending, and a task is queued for
// the extraction pipeline.
type InboxService interface {
	Upload(ctx context.Context, userID uint, fileName, contentType string, size int64, reader io.Reader, scanType string) (*model.InboxItem, error)
	Get(userID, itemID uint) (*model.InboxItem, error)
	List(userID uint, status string) ([]model.InboxItem, error)
	DownloadURL(userID, itemID uint) (string, error)
	Delete(userID, itemID uint) error
}

type inboxService struct {
	inboxRepo repository.InboxRepository
	emitter   events.Emitter
}

// NewInboxService creates a new InboxService instance.
func NewInboxService(inboxRepo repository.InboxRepository, emitter events.Emitter) InboxService {
	return &inboxService{inboxRepo: inboxRepo, emitter: emitter}
}

func (s *inboxService) Upload(ctx context.Context, userID uint, fileName, contentType string, size int64, reader io.Reader, scanType string) (*model.InboxItem, error) {
	if fileName == "" {
		return nil, apperr.Validationf("file name is required")
	}
	if scanType == "" {
		scanType = ScanTypeDocument
	}
	if scanType != ScanTypeDocument && scanType != ScanTypePhoto {
		return nil, apperr.Validationf("unknown scan type '%s'", scanType)
	}

	objectKey := fmt.Sprintf("inbox/%d/%d-%s-%s", userID, time.Now().Unix(), token.GenerateRandomString(4), fileName)
	if err := storage.PutObject(ctx, objectKey, reader, size, contentType); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to store document", err)
	}

	item := &model.InboxItem{
		UserID:      userID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
		ScanType:    scanType,
		Status:      model.InboxStatusPending,
	}
	if err := s.inboxRepo.Create(item); err != nil {
		return nil, err
	}

	task := tasks.ScanProcessingTask{
		ItemID:    item.ID,
		UserID:    userID,
		ObjectKey: objectKey,
		FileName:  fileName,
		ScanType:  scanType,
	}
	if err := kafka.ProduceScanTask(task); err != nil {
		// The item stays pending; the client can retry processing later.
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to queue document for processing", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type:   events.TypeScanSubmitted,
		UserID: userID,
		Payload: map[string]interface{}{
			"item_id":   item.ID,
			"file_name": fileName,
			"scan_type": scanType,
		},
	})
	return item, nil
}

func (s *inboxService) Get(userID, itemID uint) (*model.InboxItem, error) {
	item, err := s.inboxRepo.FindByID(userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("inbox item %d not found", itemID)
		}
		return nil, err
	}
	return item, nil
}

func (s *inboxService) List(userID uint, status string) ([]model.InboxItem, error) {
	return s.inboxRepo.List(userID, status)
}

// DownloadURL returns a presigned URL for the original uploaded file.
func (s *inboxService) DownloadURL(userID, itemID uint) (string, error) {
	item, err := s.Get(userID, itemID)
	if err != nil {
		return "", err
	}
	url, err := storage.GetPresignedURL(item.ObjectKey, 15*time.Minute)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "failed to generate download URL", err)
	}
	return url, nil
}

func (s *inboxService) Delete(userID, itemID uint) error {
	err := s.inboxRepo.Delete(userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("inbox item %d not found", itemID)
	}
	return err
}
