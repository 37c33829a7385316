package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func mustRaw(t *testing.T, doc bson.D) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal test document: %v", err)
	}
	return raw
}

func TestExtractAllFields(t *testing.T) {
	raw := mustRaw(t, bson.D{
		{Key: "_id", Value: "abc123"},
		{Key: "Manufacturer", Value: "  BMW "},
		{Key: "year", Value: int32(2015)},
		{Key: "odometer", Value: int64(60000)},
		{Key: "price", Value: 12500.0},
		{Key: "clean_title", Value: true},
		{Key: "vin", Value: nil},
	})

	record, err := ExtractAllFields(raw)
	if err != nil {
		t.Fatalf("ExtractAllFields: %v", err)
	}

	want := map[string]string{
		"manufacturer": "BMW",
		"year":         "2015",
		"odometer":     "60000",
		"price":        "12500",
		"clean_title":  "true",
		"vin":          "",
	}
	if len(record) != len(want) {
		t.Fatalf("got %d fields, want %d (%v)", len(record), len(want), record)
	}
	for k, v := range want {
		if record[k] != v {
			t.Errorf("field %q = %q; want %q", k, record[k], v)
		}
	}
	if _, ok := record["_id"]; ok {
		t.Error("_id must not appear in the extracted view")
	}
}

func TestExtractCSVFields(t *testing.T) {
	raw := mustRaw(t, bson.D{
		{Key: "model", Value: " Civic "},
		{Key: "price", Value: int32(9000)},
		{Key: "url", Value: "https://example.com/1"},
	})

	record, err := ExtractCSVFields(raw, []string{"model", "price", "region"})
	if err != nil {
		t.Fatalf("ExtractCSVFields: %v", err)
	}

	if len(record) != 3 {
		t.Fatalf("got %d columns, want 3", len(record))
	}
	if record["model"] != "Civic" || record["price"] != "9000" {
		t.Errorf("unexpected values: %v", record)
	}
	if record["region"] != "" {
		t.Errorf("absent column should be empty, got %q", record["region"])
	}
	if _, ok := record["url"]; ok {
		t.Error("columns outside the header must not leak into the csv view")
	}
}

func TestCoerceStringDateTime(t *testing.T) {
	posted := time.Date(2021, 5, 1, 12, 30, 0, 0, time.UTC)
	raw := mustRaw(t, bson.D{{Key: "posting_date", Value: posted}})

	record, err := ExtractAllFields(raw)
	if err != nil {
		t.Fatalf("ExtractAllFields: %v", err)
	}
	if record["posting_date"] != "2021-05-01T12:30:00Z" {
		t.Errorf("posting_date = %q; want RFC 3339 rendering", record["posting_date"])
	}
}
