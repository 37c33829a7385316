package storage

import (
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func bulkErr(codes ...int) mongo.BulkWriteException {
	var errs []mongo.BulkWriteError
	for _, code := range codes {
		errs = append(errs, mongo.BulkWriteError{WriteError: mongo.WriteError{Code: code}})
	}
	return mongo.BulkWriteException{WriteErrors: errs}
}

func TestAllDuplicateKeys(t *testing.T) {
	tests := []struct {
		name string
		bwe  mongo.BulkWriteException
		want bool
	}{
		{"single duplicate", bulkErr(11000), true},
		{"legacy duplicate codes", bulkErr(11000, 11001, 12582), true},
		{"mixed with real failure", bulkErr(11000, 121), false},
		{"no write errors", bulkErr(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allDuplicateKeys(tt.bwe); got != tt.want {
				t.Errorf("allDuplicateKeys = %v; want %v", got, tt.want)
			}
		})
	}
}
