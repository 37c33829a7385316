package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"carline-cleanup/models"
)

// Cleaner validates and normalizes one extracted record at a time. Any failing
// step rejects the whole record; there are no partial writes.
type Cleaner struct {
	logger *zap.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *zap.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanAndValidate runs the validation chain over a record. On acceptance both
// the CSV view and the full view are mutated in place with normalized values;
// on rejection the views must be discarded.
func (c *Cleaner) CleanAndValidate(csvRecord, fullRecord map[string]string) bool {
	categoricals := []struct {
		field string
		valid map[string]struct{}
	}{
		{"transmission", models.ValidTransmissions},
		{"condition", models.ValidConditions},
		{"fuel", models.ValidFuels},
		{"type", models.ValidTypes},
	}

	for _, cat := range categoricals {
		if !validateCategorical(csvRecord, cat.field, cat.valid) {
			c.logger.Debug("record dropped", zap.String("field", cat.field))
			return false
		}
		fullRecord[cat.field] = csvRecord[cat.field]
	}

	// Standardize manufacturer
	manu := strings.ToLower(strings.TrimSpace(csvRecord["manufacturer"]))
	if manu == "" {
		return false
	}
	if standardized, ok := models.ManufacturerAliases[manu]; ok {
		manu = standardized
	}
	csvRecord["manufacturer"] = manu
	fullRecord["manufacturer"] = manu

	// Model collapses to its first whitespace-delimited token.
	model := normalizeModelName(csvRecord["model"])
	if model == "" {
		return false
	}
	csvRecord["model"] = model
	fullRecord["model"] = model

	year, err := strconv.Atoi(strings.TrimSpace(csvRecord["year"]))
	if err != nil || year < 1900 || year > time.Now().UTC().Year()+1 {
		return false
	}
	yearStr := strconv.Itoa(year)
	csvRecord["year"] = yearStr
	fullRecord["year"] = yearStr

	// ParseFloat also accepts "NaN", infinities and hex-float syntax; none of
	// those are prices. The inverted range check rejects NaN, and the letter
	// scan rejects the hex forms ParseFloat would otherwise admit.
	rawPrice := strings.TrimSpace(csvRecord["price"])
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || strings.ContainsAny(rawPrice, "xXpP") || !(price >= 100 && price <= 1000000) {
		return false
	}
	priceStr := strconv.FormatFloat(math.Round(price), 'f', 0, 64)
	csvRecord["price"] = priceStr
	fullRecord["price"] = priceStr

	odo, err := strconv.Atoi(strings.TrimSpace(csvRecord["odometer"]))
	if err != nil || odo < 0 || odo > 500000 {
		return false
	}
	// The full view keeps the raw mileage; the training view gets the same
	// log transform the prediction service applies at inference time. The two
	// must stay in lock-step or trained models read garbage.
	fullRecord["odometer"] = strconv.Itoa(odo)
	csvRecord["odometer"] = strconv.FormatFloat(math.Log10(float64(odo)+1), 'f', 3, 64)

	// Region is optional; normalize it only when present.
	if region := strings.TrimSpace(csvRecord["region"]); region != "" {
		region = strings.ToLower(region)
		csvRecord["region"] = region
		fullRecord["region"] = region
	}

	return true
}

func validateCategorical(record map[string]string, field string, valid map[string]struct{}) bool {
	value := strings.ToLower(strings.TrimSpace(record[field]))
	if value == "" {
		return false
	}
	if _, ok := valid[value]; !ok {
		return false
	}
	record[field] = value
	return true
}

func normalizeModelName(model string) string {
	fields := strings.Fields(strings.ToLower(model))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
