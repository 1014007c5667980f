package service

import (
	"context"
	"fmt"
	"strings"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/metrics"
)

const (
	defaultObjectPageSize = 50
	defaultMaxObjects     = 200

	noDescription = "No description available"
)

var (
	nftTypeMarkers     = []string{"::nft::", "::NFT", "::collection::", "kiosk"}
	fungibleTypeMarker = []string{"::coin::", "::balance::", "::supply::"}
)

// ObjectClassifierImpl implements port.ObjectClassifier.
type ObjectClassifierImpl struct {
	ledger     port.LedgerClient
	logger     port.Logger
	pageSize   int
	maxObjects int
}

// NewObjectClassifier creates a new instance of ObjectClassifierImpl.
func NewObjectClassifier(ledger port.LedgerClient, logger port.Logger, pageSize, maxObjects int) port.ObjectClassifier {
	if pageSize <= 0 {
		pageSize = defaultObjectPageSize
	}
	if maxObjects <= 0 {
		maxObjects = defaultMaxObjects
	}
	return &ObjectClassifierImpl{ledger: ledger, logger: logger, pageSize: pageSize, maxObjects: maxObjects}
}

// Classify implements port.ObjectClassifier. Pages are fetched one after
// another until the ledger runs out or maxObjects objects were scanned.
func (c *ObjectClassifierImpl) Classify(ctx context.Context, owner string) entity.CollectibleReport {
	report := entity.CollectibleReport{Collectibles: []entity.Collectible{}}
	query := entity.ObjectQuery{Options: entity.ObjectOptions{ShowType: true, ShowContent: true, ShowDisplay: true}}

	var cursor *string
	for page := 1; ; page++ {
		limit := min(c.pageSize, c.maxObjects-report.Scanned)
		resp, err := c.ledger.GetOwnedObjects(ctx, owner, query, cursor, limit)
		if err != nil {
			if page == 1 {
				c.logger.Error("Failed to fetch owned objects", "owner", owner, "error", err)
			} else {
				c.logger.Warn("Owned objects paging stopped early", "owner", owner, "page", page, "error", err)
			}
			metrics.DegradedFetches.WithLabelValues("owned_objects").Inc()
			report.Errors = append(report.Errors, entity.FetchError{Address: owner, Source: "owned_objects", Message: err.Error()})
			break
		}

		items := resp.Data
		if rest := c.maxObjects - report.Scanned; len(items) > rest {
			items = items[:rest]
			report.Truncated = true
		}
		for _, item := range items {
			report.Scanned++
			collectible, err := c.classify(item)
			if err != nil {
				c.logger.Warn("Skipping owned object", "owner", owner, "error", err)
				metrics.DegradedFetches.WithLabelValues("object").Inc()
				report.Errors = append(report.Errors, entity.FetchError{Address: owner, Source: "object", ObjectID: objectID(item), Message: err.Error()})
				continue
			}
			if collectible != nil {
				report.Collectibles = append(report.Collectibles, *collectible)
			}
		}

		if !resp.HasNextPage || resp.NextCursor == nil {
			break
		}
		if report.Scanned >= c.maxObjects {
			report.Truncated = true
			break
		}
		cursor = resp.NextCursor
	}

	c.logger.Info("Owned objects classified", "owner", owner, "scanned", report.Scanned,
		"collectibles", len(report.Collectibles), "truncated", report.Truncated)
	return report
}

// classify returns nil without error for objects that are not collectibles.
func (c *ObjectClassifierImpl) classify(item entity.ObjectResponse) (*entity.Collectible, error) {
	if item.Error != nil {
		return nil, fmt.Errorf("ledger reported %s for object %s", item.Error.Code, item.Error.ObjectID)
	}
	obj := item.Data
	if obj == nil || obj.ObjectID == "" {
		return nil, fmt.Errorf("object without id")
	}
	if !IsCollectible(obj) {
		return nil, nil
	}
	collectible := ToCollectible(obj)
	return &collectible, nil
}

// IsCollectible is the permissive NFT heuristic: any single rule is enough.
func IsCollectible(obj *entity.ObjectData) bool {
	display := obj.DisplayFields()
	fields := obj.ContentFields()
	typ := objectType(obj)

	switch {
	case display.Has("name"):
		return true
	case obj.HasContentFields() && !strings.Contains(typ, "::coin::Coin"):
		return true
	case containsAny(typ, nftTypeMarkers):
		return true
	case fields.Has("url") || fields.Has("image_url"):
		return true
	case fields.Has("name") && fields.Has("description"):
		return true
	case !containsAny(typ, fungibleTypeMarker) && !strings.HasPrefix(typ, "0x2::") && obj.HasContentFields():
		// catch-all
		return true
	}
	return false
}

// ToCollectible maps an object to its display fields.
func ToCollectible(obj *entity.ObjectData) entity.Collectible {
	display := obj.DisplayFields()
	fields := obj.ContentFields()
	typ := objectType(obj)

	return entity.Collectible{
		ObjectID: obj.ObjectID,
		Name: firstText(placeholderName(obj.ObjectID),
			fieldRef{display, "name"}, fieldRef{fields, "name"}, fieldRef{fields, "title"}),
		Description: firstText(noDescription,
			fieldRef{display, "description"}, fieldRef{fields, "description"}, fieldRef{fields, "bio"}),
		ImageURL: firstText("",
			fieldRef{display, "image_url"}, fieldRef{fields, "url"}, fieldRef{fields, "image_url"}, fieldRef{fields, "avatar"}),
		Type:          typ,
		CollectionKey: CollectionKey(typ),
	}
}

// CollectionKey is the package address of a type tag.
func CollectionKey(typ string) string {
	if typ == "" {
		return entity.UnknownCollection
	}
	pkg, _, _ := strings.Cut(typ, "::")
	return pkg
}

type fieldRef struct {
	fields entity.ObjectFields
	key    string
}

// firstText returns the first present value, or fallback.
func firstText(fallback string, refs ...fieldRef) string {
	for _, ref := range refs {
		if v, ok := ref.fields.Text(ref.key); ok {
			return v
		}
	}
	return fallback
}

func placeholderName(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "NFT #" + id
}

func objectType(obj *entity.ObjectData) string {
	if obj.Type != "" {
		return obj.Type
	}
	if obj.Content != nil {
		return obj.Content.Type
	}
	return ""
}

func objectID(item entity.ObjectResponse) string {
	if item.Data != nil {
		return item.Data.ObjectID
	}
	if item.Error != nil {
		return item.Error.ObjectID
	}
	return ""
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
