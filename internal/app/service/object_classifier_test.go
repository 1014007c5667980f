package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inft_dashboard/internal/app/service"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/pkg/logger"
)

// fields builds ObjectFields from Go values.
func fields(kv map[string]any) entity.ObjectFields {
	if kv == nil {
		return nil
	}
	out := entity.ObjectFields{}
	for k, v := range kv {
		raw, _ := json.Marshal(v)
		out[k] = raw
	}
	return out
}

func object(id, typ string, display, content map[string]any) *entity.ObjectData {
	obj := &entity.ObjectData{ObjectID: id, Type: typ}
	if display != nil {
		obj.Display = &entity.ObjectDisplay{Data: fields(display)}
	}
	if content != nil {
		obj.Content = &entity.ObjectContent{DataType: "moveObject", Type: typ, Fields: fields(content)}
	}
	return obj
}

func TestIsCollectible(t *testing.T) {
	tests := []struct {
		name string
		obj  *entity.ObjectData
		want bool
	}{
		{name: "display name only", obj: object(addr(1), "", map[string]any{"name": "X"}, nil), want: true},
		{name: "plain coin", obj: object(addr(2), "0x2::coin::Coin<0x2::sui::SUI>", nil,
			map[string]any{"id": map[string]any{"id": addr(2)}, "balance": "100"}), want: false},
		{name: "coin without content", obj: object(addr(3), "0x2::coin::Coin<0x2::sui::SUI>", nil, nil), want: false},
		{name: "custom struct with fields", obj: object(addr(4), "0xa::hero::Hero", nil, map[string]any{"level": 3}), want: true},
		{name: "nft module", obj: object(addr(5), "0xa::nft::Thing", nil, nil), want: true},
		{name: "NFT struct", obj: object(addr(6), "0xa::art::NFT", nil, nil), want: true},
		{name: "collection module", obj: object(addr(7), "0xa::collection::Item", nil, nil), want: true},
		{name: "kiosk", obj: object(addr(8), "0x2::kiosk::KioskOwnerCap", nil, nil), want: true},
		{name: "coin with image url", obj: object(addr(9), "0x2::coin::Coin<0xb::x::X>", nil,
			map[string]any{"image_url": "https://img"}), want: true},
		{name: "coin with name and description", obj: object(addr(10), "0x2::coin::Coin<0xb::x::X>", nil,
			map[string]any{"name": "n", "description": "d"}), want: true},
		{name: "staked sui without content", obj: object(addr(11), "0x3::staking_pool::StakedSui", nil, nil), want: false},
		{name: "empty display name is absent", obj: object(addr(12), "0x2::display::Display<0xa::b::C>",
			map[string]any{"name": ""}, nil), want: false},
		{name: "null display name is absent", obj: object(addr(13), "", map[string]any{"name": nil}, nil), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.IsCollectible(tt.obj))
		})
	}
}

func TestToCollectible_FallbackChains(t *testing.T) {
	id := "0x00000000000000000000000000000000000000000000000000000000abcdef12"

	t.Run("display wins", func(t *testing.T) {
		c := service.ToCollectible(object(id, "0xfeed::hero::Hero",
			map[string]any{"name": "Display Name", "description": "Display Desc", "image_url": "https://display"},
			map[string]any{"name": "Field Name", "description": "Field Desc", "url": "https://field"}))
		assert.Equal(t, "Display Name", c.Name)
		assert.Equal(t, "Display Desc", c.Description)
		assert.Equal(t, "https://display", c.ImageURL)
		assert.Equal(t, "0xfeed", c.CollectionKey)
		assert.Equal(t, "0xfeed::hero::Hero", c.Type)
	})

	t.Run("content fallbacks", func(t *testing.T) {
		c := service.ToCollectible(object(id, "0xfeed::hero::Hero", nil,
			map[string]any{"title": "Title", "bio": "Bio", "avatar": "https://avatar"}))
		assert.Equal(t, "Title", c.Name)
		assert.Equal(t, "Bio", c.Description)
		assert.Equal(t, "https://avatar", c.ImageURL)
	})

	t.Run("placeholders", func(t *testing.T) {
		c := service.ToCollectible(object(id, "", nil, map[string]any{"name": false, "url": 0}))
		assert.Equal(t, "NFT #cdef12", c.Name)
		assert.Equal(t, "No description available", c.Description)
		assert.Equal(t, "", c.ImageURL)
		assert.Equal(t, entity.UnknownCollection, c.CollectionKey)
	})
}

func TestCollectionKey(t *testing.T) {
	assert.Equal(t, "0xabc", service.CollectionKey("0xabc::module::Type<0x2::sui::SUI>"))
	assert.Equal(t, "0xabc", service.CollectionKey("0xabc"))
	assert.Equal(t, entity.UnknownCollection, service.CollectionKey(""))
}

func namedPage(start, n int, next *string) *entity.ObjectPage {
	page := &entity.ObjectPage{NextCursor: next, HasNextPage: next != nil}
	for i := 0; i < n; i++ {
		page.Data = append(page.Data, entity.ObjectResponse{
			Data: object(addr(start+i), "0xa::nft::Item", map[string]any{"name": fmt.Sprintf("Item %d", start+i)}, nil),
		})
	}
	return page
}

func TestObjectClassifier_PagesUntilCap(t *testing.T) {
	ledger := &fakeLedger{objectPages: []*entity.ObjectPage{
		namedPage(0, 50, strPtr("c1")),
		namedPage(50, 50, strPtr("c2")),
		namedPage(100, 50, strPtr("c3")),
		namedPage(150, 50, strPtr("c4")),
		namedPage(200, 50, nil),
	}}
	classifier := service.NewObjectClassifier(ledger, logger.NewNop(), 50, 200)

	report := classifier.Classify(context.Background(), addr(7))

	assert.Equal(t, 200, report.Scanned)
	assert.True(t, report.Truncated)
	assert.Len(t, report.Collectibles, 200)
	require.Len(t, ledger.objectCalls, 4)
	assert.Nil(t, ledger.objectCalls[0].cursor)
	for i, call := range ledger.objectCalls {
		assert.Equal(t, 50, call.limit)
		assert.True(t, call.query.Options.ShowDisplay)
		assert.True(t, call.query.Options.ShowContent)
		if i > 0 {
			require.NotNil(t, call.cursor)
			assert.Equal(t, fmt.Sprintf("c%d", i), *call.cursor)
		}
	}
}

func TestObjectClassifier_StopsOnLastPage(t *testing.T) {
	ledger := &fakeLedger{objectPages: []*entity.ObjectPage{
		namedPage(0, 50, strPtr("c1")),
		namedPage(50, 10, nil),
	}}
	classifier := service.NewObjectClassifier(ledger, logger.NewNop(), 50, 200)

	report := classifier.Classify(context.Background(), addr(7))

	assert.Equal(t, 60, report.Scanned)
	assert.False(t, report.Truncated)
	assert.Len(t, report.Collectibles, 60)
	assert.Len(t, ledger.objectCalls, 2)
}

func TestObjectClassifier_FailingPages(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		ledger := &fakeLedger{objectErrAt: map[int]error{0: errLedgerDown}}
		report := service.NewObjectClassifier(ledger, logger.NewNop(), 50, 200).Classify(context.Background(), addr(7))

		assert.NotNil(t, report.Collectibles)
		assert.Empty(t, report.Collectibles)
		assert.Len(t, report.Errors, 1)
	})

	t.Run("later page keeps what was collected", func(t *testing.T) {
		ledger := &fakeLedger{
			objectPages: []*entity.ObjectPage{namedPage(0, 50, strPtr("c1"))},
			objectErrAt: map[int]error{1: errLedgerDown},
		}
		report := service.NewObjectClassifier(ledger, logger.NewNop(), 50, 200).Classify(context.Background(), addr(7))

		assert.Len(t, report.Collectibles, 50)
		assert.Len(t, report.Errors, 1)
	})
}

func TestObjectClassifier_SkipsBrokenObjects(t *testing.T) {
	ledger := &fakeLedger{objectPages: []*entity.ObjectPage{{
		Data: []entity.ObjectResponse{
			{Error: &entity.ObjectError{Code: "deleted", ObjectID: addr(1)}},
			{Data: &entity.ObjectData{}},
			{Data: object(addr(2), "", map[string]any{"name": "X"}, nil)},
			{Data: object(addr(3), "0x2::coin::Coin<0x2::sui::SUI>", nil, nil)},
		},
	}}}

	report := service.NewObjectClassifier(ledger, logger.NewNop(), 50, 200).Classify(context.Background(), addr(7))

	assert.Equal(t, 4, report.Scanned)
	require.Len(t, report.Collectibles, 1)
	assert.Equal(t, addr(2), report.Collectibles[0].ObjectID)
	assert.Equal(t, "X", report.Collectibles[0].Name)
	assert.Len(t, report.Errors, 2)
}
