package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ExtractAllFields flattens a raw source document into a field-name → trimmed
// string view. Keys are lower-cased so lookups behave case-insensitively; the
// Mongo internal id is skipped because it is useless in the output and breaks
// stable-key logic.
func ExtractAllFields(doc bson.Raw) (map[string]string, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, fmt.Errorf("extract: malformed document: %w", err)
	}

	record := make(map[string]string, len(elems))
	for _, el := range elems {
		key := strings.ToLower(el.Key())
		if key == "_id" {
			continue
		}
		record[key] = CoerceString(el.Value())
	}
	return record, nil
}

// ExtractCSVFields produces the view restricted to the training columns.
// Absent or null columns come back as empty strings.
func ExtractCSVFields(doc bson.Raw, header []string) (map[string]string, error) {
	full, err := ExtractAllFields(doc)
	if err != nil {
		return nil, err
	}

	record := make(map[string]string, len(header))
	for _, col := range header {
		record[col] = full[col]
	}
	return record, nil
}

// CoerceString converts an arbitrary BSON scalar to a trimmed string.
// Numeric fields arrive as numbers or numeric strings depending on the
// upstream producer; both collapse to the same representation here.
func CoerceString(val bson.RawValue) string {
	switch val.Type {
	case bsontype.String:
		return strings.TrimSpace(val.StringValue())
	case bsontype.Int32:
		return strconv.FormatInt(int64(val.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(val.Int64(), 10)
	case bsontype.Double:
		return strconv.FormatFloat(val.Double(), 'f', -1, 64)
	case bsontype.Boolean:
		return strconv.FormatBool(val.Boolean())
	case bsontype.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case bsontype.Null, bsontype.Undefined:
		return ""
	default:
		// Extended-JSON rendering as a last resort for exotic types.
		return strings.TrimSpace(val.String())
	}
}
