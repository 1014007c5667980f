package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// UnknownCollection is the collection key of objects without a type tag.
const UnknownCollection = "Unknown Collection"

// ObjectPage is one page of suix_getOwnedObjects.
type ObjectPage struct {
	Data        []ObjectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

// ObjectResponse wraps either the object data or a per-object error.
type ObjectResponse struct {
	Data  *ObjectData  `json:"data"`
	Error *ObjectError `json:"error"`
}

// ObjectError is reported by the node for objects it could not load.
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id"`
}

// ObjectData is the subset of a Sui object the dashboard reads. Every
// optional part of the ledger payload is a pointer or a nil-able map.
type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"`
	Digest   string         `json:"digest"`
	Type     string         `json:"type"`
	Display  *ObjectDisplay `json:"display"`
	Content  *ObjectContent `json:"content"`
}

// ObjectDisplay is the rendered Display standard of an object.
type ObjectDisplay struct {
	Data  ObjectFields    `json:"data"`
	Error json.RawMessage `json:"error"`
}

// ObjectContent is the parsed Move content of an object.
type ObjectContent struct {
	DataType          string       `json:"dataType"`
	Type              string       `json:"type"`
	HasPublicTransfer bool         `json:"hasPublicTransfer"`
	Fields            ObjectFields `json:"fields"`
}

// ObjectFields holds Move struct fields or Display entries whose shape
// depends on the object's type. Values stay raw until read.
type ObjectFields map[string]json.RawMessage

// Text returns the value at key rendered as text and whether it is present.
// null, "", false and 0 count as absent. Non-string values are returned as
// their JSON text.
func (f ObjectFields) Text(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	raw, ok := f[key]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case 'n', 'f':
		// null, false
		return "", false
	case 't':
		return "true", true
	case '{', '[':
		return string(raw), true
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || n == 0 {
			return "", false
		}
		return string(raw), true
	}
}

// Has reports whether the value at key is present in the sense of Text.
func (f ObjectFields) Has(key string) bool {
	_, ok := f.Text(key)
	return ok
}

// Int returns the value at key as an integer. Sui encodes u64 fields as
// strings, so both string and number forms are accepted.
func (f ObjectFields) Int(key string) int64 {
	s, ok := f.Text(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// DisplayFields returns the display entries, nil when the object has none.
func (d *ObjectData) DisplayFields() ObjectFields {
	if d == nil || d.Display == nil {
		return nil
	}
	return d.Display.Data
}

// ContentFields returns the Move fields, nil when the object has none.
func (d *ObjectData) ContentFields() ObjectFields {
	if d == nil || d.Content == nil {
		return nil
	}
	return d.Content.Fields
}

// HasContentFields reports whether the object carries a fields record,
// even an empty one.
func (d *ObjectData) HasContentFields() bool {
	return d.ContentFields() != nil
}

// Collectible is an owned object classified as an NFT.
type Collectible struct {
	ObjectID      string `json:"objectId"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
	Type          string `json:"type"`
	CollectionKey string `json:"collectionKey"`
	IsFavorite    bool   `json:"isFavorite"`
}

// CollectibleReport is the result of classifying the owned objects of one address.
type CollectibleReport struct {
	Collectibles []Collectible `json:"collectibles"`
	Scanned      int           `json:"scanned"`
	Truncated    bool          `json:"truncated"`
	Errors       []FetchError  `json:"errors,omitempty"`
}

// ObjectQuery is the query argument of suix_getOwnedObjects.
type ObjectQuery struct {
	Filter  map[string]string `json:"filter,omitempty"`
	Options ObjectOptions     `json:"options"`
}

// ObjectOptions selects the parts of each object the node returns.
type ObjectOptions struct {
	ShowType    bool `json:"showType"`
	ShowContent bool `json:"showContent"`
	ShowDisplay bool `json:"showDisplay"`
	ShowOwner   bool `json:"showOwner"`
}
