package filemanager

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	models "spisovka/internal/domain/models/filemanager"
)

// Current field names followed by the names older records used for them.
// A legacy value is only read when the current field is unset.
var (
	createdAtKeys   = []string{"createdAt", "date", "uploadedAt"}
	nameKeys        = []string{"name", "filename", "fileName"}
	createdByKeys   = []string{"createdBy", "uploadedBy"}
	urlKeys         = []string{"url", "fileUrl", "publicUrl"}
	storagePathKeys = []string{"storagePath", "path"}
	descriptionKeys = []string{"description", "popis", "note"}
	categoryKeys    = []string{"category", "kategoria"}
	sentKeys        = []string{"sent", "odoslane"}
	supplierKeys    = []string{"supplier", "dodavatel"}
)

// legacyDateLayouts are the timestamp shapes seen in stored lists.
var legacyDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2.1.2006",
}

// NeedsMigration reports whether any stored item lacks one of the required
// fields (id, type, parentId, createdAt).
func NeedsMigration(raw []models.RawItem) bool {
	for _, item := range raw {
		if stringField(item, "id") == "" || stringField(item, "type") == "" {
			return true
		}
		if _, ok := item["parentId"]; !ok {
			return true
		}
		if _, ok := timeField(item, "createdAt"); !ok {
			return true
		}
	}
	return false
}

// Migrate normalizes stored items into the current schema. Missing ids are
// generated, type defaults to file, parentId to root and createdAt to now.
// Fields already present are never overwritten, so migrating the output
// again yields the same list. Unknown fields are dropped.
func Migrate(raw []models.RawItem, now time.Time) []models.FileItem {
	items := make([]models.FileItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, migrateItem(r, now))
	}
	return items
}

func migrateItem(r models.RawItem, now time.Time) models.FileItem {
	item := models.FileItem{
		ID:        stringField(r, "id"),
		Type:      models.TypeFile,
		Name:      stringField(r, nameKeys...),
		ParentID:  stringField(r, "parentId"),
		CreatedBy: stringField(r, createdByKeys...),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if models.ItemType(stringField(r, "type")) == models.TypeFolder {
		item.Type = models.TypeFolder
	}
	if createdAt, ok := timeField(r, createdAtKeys...); ok {
		item.CreatedAt = createdAt
	} else {
		item.CreatedAt = now.UTC()
	}

	if item.IsFolder() {
		return item
	}

	item.URL = stringField(r, urlKeys...)
	item.StoragePath = stringField(r, storagePathKeys...)
	item.Description = stringField(r, descriptionKeys...)
	item.Category = stringField(r, categoryKeys...)
	item.Sent = boolField(r, sentKeys...)
	item.Supplier = stringField(r, supplierKeys...)
	return item
}

// DecodeRaw parses a stored JSON list. Empty input is an empty list.
func DecodeRaw(data []byte) ([]models.RawItem, error) {
	if len(data) == 0 || string(data) == "null" {
		return []models.RawItem{}, nil
	}
	var raw []models.RawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode attachment list: %w", err)
	}
	return raw, nil
}

// stringField returns the first non-empty string value among keys.
func stringField(r models.RawItem, keys ...string) string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return v
			}
		case float64:
			// numeric ids from very old records
			if v == math.Trunc(v) {
				return fmt.Sprintf("%.0f", v)
			}
		}
	}
	return ""
}

func timeField(r models.RawItem, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			for _, layout := range legacyDateLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t.UTC(), true
				}
			}
		case float64:
			// epoch milliseconds
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func boolField(r models.RawItem, keys ...string) bool {
	for _, key := range keys {
		switch v := r[key].(type) {
		case bool:
			if v {
				return true
			}
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "1", "ano", "áno", "yes":
				return true
			}
		case float64:
			if v != 0 {
				return true
			}
		}
	}
	return false
}
