package service

import (
	"context"
	"fmt"
	"strings"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
)

const (
	inftStruct      = "::inft_core::INFT"
	unnamedINFTName = "Unnamed INFT"
)

// INFTServiceImpl implements port.INFTService.
type INFTServiceImpl struct {
	ledger     port.LedgerClient
	packageID  string
	pageSize   int
	maxObjects int
	logger     port.Logger
}

// NewINFTService creates a new instance of INFTServiceImpl.
func NewINFTService(ledger port.LedgerClient, packageID string, pageSize, maxObjects int, logger port.Logger) port.INFTService {
	if pageSize <= 0 {
		pageSize = defaultObjectPageSize
	}
	if maxObjects <= 0 {
		maxObjects = defaultMaxObjects
	}
	return &INFTServiceImpl{ledger: ledger, packageID: packageID, pageSize: pageSize, maxObjects: maxObjects, logger: logger}
}

// ListINFTs implements port.INFTService. Unlike the dashboard aggregators it
// fails when the ledger does.
func (s *INFTServiceImpl) ListINFTs(ctx context.Context, owner string) ([]entity.INFT, error) {
	owner, err := entity.NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}
	structType := s.packageID + inftStruct
	query := entity.ObjectQuery{
		Filter:  map[string]string{"StructType": structType},
		Options: entity.ObjectOptions{ShowType: true, ShowContent: true, ShowDisplay: true, ShowOwner: true},
	}

	infts := []entity.INFT{}
	var cursor *string
	for scanned := 0; scanned < s.maxObjects; {
		page, err := s.ledger.GetOwnedObjects(ctx, owner, query, cursor, s.pageSize)
		if err != nil {
			s.logger.Error("Failed to list INFTs", "owner", owner, "error", err)
			return nil, fmt.Errorf("failed to list INFTs of %s: %w", owner, err)
		}
		for _, item := range page.Data {
			scanned++
			obj := item.Data
			if item.Error != nil || obj == nil || !strings.Contains(objectType(obj), structType) {
				continue
			}
			infts = append(infts, toINFT(obj))
		}
		if !page.HasNextPage || page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	s.logger.Debug("INFTs listed", "owner", owner, "count", len(infts))
	return infts, nil
}

func toINFT(obj *entity.ObjectData) entity.INFT {
	display := obj.DisplayFields()
	fields := obj.ContentFields()
	text := func(key string) string {
		v, _ := fields.Text(key)
		return v
	}
	return entity.INFT{
		ObjectID:           obj.ObjectID,
		Name:               firstText(unnamedINFTName, fieldRef{display, "name"}, fieldRef{fields, "name"}),
		Description:        firstText("", fieldRef{display, "description"}, fieldRef{fields, "description"}),
		ImageURL:           text("image_url"),
		PublicMetadataURI:  text("public_metadata_uri"),
		PrivateMetadataURI: text("private_metadata_uri"),
		AtomaModelID:       text("atoma_model_id"),
		InteractionCount:   fields.Int("interaction_count"),
		EvolutionStage:     fields.Int("evolution_stage"),
		Owner:              text("owner"),
	}
}
