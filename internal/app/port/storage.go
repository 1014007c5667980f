package port

import (
	"context"

	"inft_dashboard/internal/domain/entity"
)

// BlobStore puts opaque blobs into decentralized storage.
type BlobStore interface {
	// PutBlob stores the upload and returns its blob id.
	PutBlob(ctx context.Context, upload entity.BlobUpload) (string, error)
	// BlobURL returns the public read URL of a blob.
	BlobURL(blobID string) string
}

// FavoritesStore persists the favorite object ids of each owner.
// Callers load, modify and save explicitly; there is no ambient state.
type FavoritesStore interface {
	Load(ctx context.Context, owner string) ([]string, error)
	Save(ctx context.Context, owner string, objectIDs []string) error
}

// ChatCompleter sends a conversation to a chat-completion model and returns its reply.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}
