package service

import (
	"context"
	"fmt"
	"strings"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
)

// BlobServiceImpl implements port.BlobService. It validates uploads before
// handing them to the blob store.
type BlobServiceImpl struct {
	store  port.BlobStore
	logger port.Logger
}

// NewBlobService creates a new instance of BlobServiceImpl.
func NewBlobService(store port.BlobStore, logger port.Logger) port.BlobService {
	return &BlobServiceImpl{store: store, logger: logger}
}

// Upload implements port.BlobService.
func (s *BlobServiceImpl) Upload(ctx context.Context, upload entity.BlobUpload) (entity.StoredBlob, error) {
	if len(upload.Data) == 0 {
		return entity.StoredBlob{}, fmt.Errorf("%w: file is required", entity.ErrInvalidInput)
	}
	if strings.TrimSpace(upload.SuiAddress) == "" || strings.TrimSpace(upload.SuiNetwork) == "" {
		return entity.StoredBlob{}, fmt.Errorf("%w: suiAddress and suiNetwork are required", entity.ErrInvalidInput)
	}
	addr, err := entity.NormalizeAddress(upload.SuiAddress)
	if err != nil {
		return entity.StoredBlob{}, err
	}
	upload.SuiAddress = addr

	blobID, err := s.store.PutBlob(ctx, upload)
	if err != nil {
		s.logger.Error("Blob upload failed", "owner", addr, "size", len(upload.Data), "error", err)
		return entity.StoredBlob{}, fmt.Errorf("failed to store blob: %w", err)
	}
	return entity.StoredBlob{BlobID: blobID, URL: s.store.BlobURL(blobID)}, nil
}
