package models

// TrainingExcludedColumns are dropped from the CSV training dataset only;
// the cleaned collection keeps them for web display.
var TrainingExcludedColumns = map[string]struct{}{
	"_id":          {},
	"url":          {},
	"region_url":   {},
	"title_status": {},
	"vin":          {},
	"image_url":    {},
	"state":        {},
	"lat":          {},
	"long":         {},
	"posting_date": {},
	"paint_color":  {},
	"size":         {},
	"county":       {},
	"cylinders":    {},
	"drive":        {},
}

// WebDisplayFields is the allow-list for the cleaned operational document.
// Kept as an ordered slice so built documents have a stable field order.
var WebDisplayFields = []string{
	"manufacturer", "model", "year", "price", "odometer",
	"region", "transmission", "condition", "fuel", "type",
	"posting_date", "image_url", "region_url", "title_status", "vin",
	"state", "lat", "long", "paint_color", "size", "county", "cylinders", "drive",
}

// ManufacturerAliases standardizes manufacturer names (variations/typos only).
var ManufacturerAliases = map[string]string{
	"chevy":           "chevrolet",
	"mercedes benz":   "mercedes-benz",
	"mercedes":        "mercedes-benz",
	"benz":            "mercedes-benz",
	"vw":              "volkswagen",
	"land rover":      "land-rover",
	"landrover":       "land-rover",
	"rover":           "land-rover",
	"alfa romeo":      "alfa-romeo",
	"alfaromeo":       "alfa-romeo",
	"harley davidson": "harley-davidson",
	"harley":          "harley-davidson",
	"aston martin":    "aston-martin",
	"astonmartin":     "aston-martin",
	"datsun":          "nissan",
}

// Valid categorical values per field. A record whose value is outside the set
// is dropped entirely.
var (
	ValidTransmissions = map[string]struct{}{
		"automatic": {}, "manual": {}, "other": {},
	}

	ValidConditions = map[string]struct{}{
		"excellent": {}, "good": {}, "fair": {}, "like new": {},
	}

	ValidFuels = map[string]struct{}{
		"gas": {}, "diesel": {}, "electric": {}, "hybrid": {}, "other": {},
	}

	ValidTypes = map[string]struct{}{
		"sedan": {}, "suv": {}, "truck": {}, "coupe": {}, "van": {},
		"wagon": {}, "convertible": {}, "hatchback": {}, "pickup": {}, "other": {},
	}
)
