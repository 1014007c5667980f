package port

import (
	"context"

	"inft_dashboard/internal/domain/entity"
)

// FavoritesService manages favorite collectibles of an owner.
type FavoritesService interface {
	List(ctx context.Context, owner string) ([]string, error)
	Add(ctx context.Context, owner, objectID string) ([]string, error)
	Remove(ctx context.Context, owner, objectID string) ([]string, error)
}

// INFTService lists the INFTs minted by the platform package.
type INFTService interface {
	ListINFTs(ctx context.Context, owner string) ([]entity.INFT, error)
}

// MintService uploads mint assets and prepares the Move call to sign.
type MintService interface {
	PrepareMint(ctx context.Context, req entity.MintRequest) (entity.MintDraft, error)
}

// BlobService stores user uploads.
type BlobService interface {
	Upload(ctx context.Context, upload entity.BlobUpload) (entity.StoredBlob, error)
}

// ChatService answers a user message in the voice of an INFT persona.
type ChatService interface {
	Reply(ctx context.Context, req entity.ChatRequest) (entity.ChatReply, error)
}
