package service

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/configloader"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	mintFunction       = "::inft_core::mint_nft"
	privateDataPayload = "Encrypted data"
	metadataMIME       = "application/json"
)

type publicMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type privateMetadata struct {
	PrivateData      string `json:"private_data"`
	AtomaModelOutput string `json:"atoma_model_output"`
}

// MintServiceImpl implements port.MintService.
type MintServiceImpl struct {
	blobs   port.BlobStore
	cfg     configloader.INFTConfig
	network string
	logger  port.Logger
}

// NewMintService creates a new instance of MintServiceImpl.
func NewMintService(blobs port.BlobStore, cfg configloader.INFTConfig, network string, logger port.Logger) port.MintService {
	return &MintServiceImpl{blobs: blobs, cfg: cfg, network: network, logger: logger}
}

// PrepareMint implements port.MintService. Input is validated before any
// upload: image, public metadata and private metadata are then stored in
// that order and the mint_nft call is assembled from their URLs.
func (s *MintServiceImpl) PrepareMint(ctx context.Context, req entity.MintRequest) (entity.MintDraft, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return entity.MintDraft{}, fmt.Errorf("%w: name is required", entity.ErrInvalidInput)
	}
	if len(req.Image) == 0 {
		return entity.MintDraft{}, fmt.Errorf("%w: image is required", entity.ErrInvalidInput)
	}
	if s.cfg.ModelID == "" {
		return entity.MintDraft{}, fmt.Errorf("atoma model id is not configured")
	}
	owner := ""
	if req.Owner != "" {
		addr, err := entity.NormalizeAddress(req.Owner)
		if err != nil {
			return entity.MintDraft{}, err
		}
		owner = addr
	}

	imageID, err := s.put(ctx, "image", owner, req.Image, req.ImageContentType)
	if err != nil {
		return entity.MintDraft{}, err
	}
	imageURL := s.blobs.BlobURL(imageID)

	public, err := json.Marshal(publicMetadata{Name: name, Description: req.Description, Image: imageURL})
	if err != nil {
		return entity.MintDraft{}, fmt.Errorf("failed to marshal public metadata: %w", err)
	}
	publicID, err := s.put(ctx, "public metadata", owner, public, metadataMIME)
	if err != nil {
		return entity.MintDraft{}, err
	}

	private, err := json.Marshal(privateMetadata{PrivateData: privateDataPayload, AtomaModelOutput: s.cfg.ModelID})
	if err != nil {
		return entity.MintDraft{}, fmt.Errorf("failed to marshal private metadata: %w", err)
	}
	privateID, err := s.put(ctx, "private metadata", owner, private, metadataMIME)
	if err != nil {
		return entity.MintDraft{}, err
	}

	draft := entity.MintDraft{
		Owner:              owner,
		ImageBlobID:        imageID,
		ImageURL:           imageURL,
		PublicMetadataURI:  s.blobs.BlobURL(publicID),
		PrivateMetadataURI: s.blobs.BlobURL(privateID),
		AtomaModelID:       s.cfg.ModelID,
	}
	draft.MoveCall = entity.MoveCall{
		Target: s.cfg.PackageID + mintFunction,
		Arguments: []string{
			name,
			req.Description,
			draft.ImageURL,
			draft.PublicMetadataURI,
			draft.PrivateMetadataURI,
			draft.AtomaModelID,
		},
		GasBudget: s.cfg.GasBudget,
	}
	s.logger.Info("Mint prepared", "owner", owner, "name", name, "image_blob", imageID)
	return draft, nil
}

func (s *MintServiceImpl) put(ctx context.Context, what, owner string, data []byte, contentType string) (string, error) {
	id, err := s.blobs.PutBlob(ctx, entity.BlobUpload{
		Data:        data,
		ContentType: contentType,
		SuiAddress:  owner,
		SuiNetwork:  s.network,
	})
	if err != nil {
		s.logger.Error("Mint upload failed", "part", what, "owner", owner, "error", err)
		return "", fmt.Errorf("failed to upload %s: %w", what, err)
	}
	return id, nil
}
