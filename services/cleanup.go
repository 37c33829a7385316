package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"carline-cleanup/config"
	"carline-cleanup/models"
	"carline-cleanup/storage"
)

// CleanupService drives one full cleanup run: stream the raw collection,
// validate and normalize each record, and fan the accepted ones out to the
// cleaned collection, the search index, and the training CSV.
type CleanupService struct {
	cfg     *config.Config
	logger  *zap.Logger
	cleaner *Cleaner
	source  storage.SourceReader
	cleaned storage.CleanedStore
	search  storage.SearchStore
	blobs   storage.BlobUploader
}

// NewCleanupService wires the orchestrator with its source and sinks.
func NewCleanupService(
	cfg *config.Config,
	logger *zap.Logger,
	source storage.SourceReader,
	cleaned storage.CleanedStore,
	search storage.SearchStore,
	blobs storage.BlobUploader,
) *CleanupService {
	return &CleanupService{
		cfg:     cfg,
		logger:  logger,
		cleaner: NewCleaner(logger),
		source:  source,
		cleaned: cleaned,
		search:  search,
		blobs:   blobs,
	}
}

// Run executes one cleanup pass. Per-row and per-sink failures are absorbed
// into counters so one bad record or a degraded search sink never aborts the
// run; only the url-index precondition, a final-flush failure, a source
// cursor failure, or the blob upload can surface as a failed run.
func (s *CleanupService) Run(ctx context.Context) *models.RunResult {
	s.logger.Info("starting data cleanup run")
	start := time.Now()

	fail := func(msg string, err error) *models.RunResult {
		if err != nil {
			s.logger.Error(msg, zap.Error(err))
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		return &models.RunResult{Success: false, Message: msg, Duration: time.Since(start)}
	}

	// The search sink is best-effort from the very first step: if the index
	// cannot be ensured the run proceeds without search indexing.
	searchEnabled := true
	if err := s.search.EnsureIndex(ctx); err != nil {
		s.logger.Error("failed to ensure search index, continuing without search indexing", zap.Error(err))
		searchEnabled = false
	}

	if err := s.cleaned.EnsureURLIndex(ctx); err != nil {
		return fail("failed to ensure unique url index", err)
	}

	first, err := s.source.FindFirst(ctx)
	if err != nil {
		return fail("failed to read sample source document", err)
	}
	if first == nil {
		s.logger.Info("no documents found in source collection")
		return fail("no documents found in source collection", nil)
	}

	header, err := buildCSVHeader(first)
	if err != nil {
		return fail("failed to derive csv header", err)
	}
	s.logger.Info("training csv header derived", zap.Strings("columns", header))

	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("cleaned_%s.csv", start.UTC().Format("20060102_150405")))

	csvWriter, err := storage.NewTrainingCSVWriter(tempPath, header)
	if err != nil {
		return fail("failed to open training csv", err)
	}

	cleanupTemp := func() {
		_ = csvWriter.Close()
		_ = os.Remove(tempPath)
	}

	cursor, err := s.source.Stream(ctx)
	if err != nil {
		cleanupTemp()
		return fail("failed to open source cursor", err)
	}
	defer cursor.Close(context.Background())

	tracker := NewDistinctValueTracker(header)
	batch := storage.NewInsertBatch()
	esBatch := make([]models.CarDocument, 0, s.cfg.BatchSize)

	var rowsRead, rowsWritten, rowsDropped, errCount, inserted int64

	for cursor.Next(ctx) {
		rowsRead++
		raw := cursor.Current()

		fullRecord, err := ExtractAllFields(raw)
		if err != nil {
			errCount++
			s.logger.Error("error processing row", zap.Int64("row", rowsRead), zap.Error(err))
			continue
		}
		csvRecord, err := ExtractCSVFields(raw, header)
		if err != nil {
			errCount++
			s.logger.Error("error processing row", zap.Int64("row", rowsRead), zap.Error(err))
			continue
		}

		if !s.cleaner.CleanAndValidate(csvRecord, fullRecord) {
			rowsDropped++
			continue
		}

		tracker.TrackRow(csvRecord)

		if err := csvWriter.WriteRow(csvRecord); err != nil {
			errCount++
			s.logger.Error("error writing csv row", zap.Int64("row", rowsRead), zap.Error(err))
			continue
		}

		if url, ok := batch.TryAdd(fullRecord); ok {
			if searchEnabled {
				esBatch = append(esBatch, buildSearchDocument(fullRecord, url, time.Now().UTC()))
			}

			if batch.Len() >= s.cfg.BatchSize {
				if ctx.Err() != nil {
					break
				}
				n, err := s.flush(ctx, batch, &esBatch, searchEnabled)
				if err != nil {
					errCount++
					s.logger.Error("mid-run batch flush failed, continuing", zap.Error(err))
				}
				inserted += n
			}
		}

		rowsWritten++
		if rowsWritten%int64(s.cfg.BatchSize) == 0 {
			s.logger.Info("processed rows", zap.Int64("written", rowsWritten))
		}
	}

	if ctx.Err() != nil {
		cleanupTemp()
		return fail("run canceled", ctx.Err())
	}
	if err := cursor.Err(); err != nil {
		cleanupTemp()
		return fail("source cursor failed", err)
	}

	// Final flush is the one batch write that fails the whole run: losing the
	// tail of the data silently would misreport completeness.
	n, err := s.flush(ctx, batch, &esBatch, searchEnabled)
	if err != nil {
		cleanupTemp()
		return fail("final batch flush failed", err)
	}
	inserted += n

	// Handle must be released before the upload re-opens the file for read.
	if err := csvWriter.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fail("failed to close training csv", err)
	}

	s.logger.Info("cleanup complete",
		zap.Int64("rows_read", rowsRead),
		zap.Int64("rows_written", rowsWritten),
		zap.Int64("rows_dropped", rowsDropped),
		zap.Int64("errors", errCount),
		zap.Int64("inserted", inserted))

	for _, cc := range tracker.CountsByColumn() {
		s.logger.Info("distinct values",
			zap.String("column", cc.Column), zap.Int("count", cc.Count))
	}

	blobName := s.cfg.BlobPrefix + "/" + filepath.Base(tempPath)
	if err := s.blobs.Upload(ctx, blobName, tempPath); err != nil {
		_ = os.Remove(tempPath)
		return fail("failed to upload training file", err)
	}

	if err := os.Remove(tempPath); err != nil {
		s.logger.Warn("failed to delete temp file", zap.String("path", tempPath), zap.Error(err))
	}

	return &models.RunResult{
		Success:     true,
		Message:     "cleanup completed successfully",
		RowsRead:    rowsRead,
		RowsWritten: rowsWritten,
		RowsDropped: rowsDropped,
		Errors:      errCount,
		Inserted:    inserted,
		BlobName:    blobName,
		Duration:    time.Since(start),
	}
}

// flush bulk-inserts the operational batch, then best-effort indexes the
// matching search batch. Both batches are reset either way so a failed write
// cannot grow them without bound.
func (s *CleanupService) flush(ctx context.Context, batch *storage.InsertBatch, esBatch *[]models.CarDocument, searchEnabled bool) (int64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	inserted, err := s.cleaned.InsertBatch(ctx, batch.Docs())
	batch.Reset()
	if err != nil {
		*esBatch = (*esBatch)[:0]
		return 0, err
	}

	s.logger.Info("batch insert-only complete",
		zap.Int64("inserted", inserted))

	if searchEnabled && len(*esBatch) > 0 {
		s.search.CreateOnly(ctx, *esBatch)
	}
	*esBatch = (*esBatch)[:0]

	return inserted, nil
}

// buildCSVHeader derives the training column list from the first source
// document: every field name minus the web-only exclusion set, sorted.
func buildCSVHeader(first bson.Raw) ([]string, error) {
	fields, err := ExtractAllFields(first)
	if err != nil {
		return nil, err
	}

	header := make([]string, 0, len(fields))
	for name := range fields {
		if _, excluded := models.TrainingExcludedColumns[name]; excluded {
			continue
		}
		header = append(header, name)
	}
	sort.Strings(header)
	return header, nil
}

// buildSearchDocument projects the cleaned full record into the typed search
// document, with placeholder classification fields for the downstream scorer.
func buildSearchDocument(fullRecord map[string]string, url string, now time.Time) models.CarDocument {
	year, _ := strconv.Atoi(fullRecord["year"])
	price, _ := strconv.ParseFloat(fullRecord["price"], 64)
	odometer, _ := strconv.Atoi(fullRecord["odometer"])

	return models.CarDocument{
		URL:          url,
		Manufacturer: fullRecord["manufacturer"],
		Model:        fullRecord["model"],
		Year:         year,
		Status:       "ACTIVE",
		Price:        price,
		Odometer:     odometer,
		Transmission: fullRecord["transmission"],
		Condition:    fullRecord["condition"],
		Fuel:         fullRecord["fuel"],
		Type:         fullRecord["type"],
		Region:       fullRecord["region"],
		ImageURL:     fullRecord["image_url"],
		Vin:          fullRecord["vin"],
		PaintColor:   fullRecord["paint_color"],
		PostingDate:  parsePostingDate(fullRecord["posting_date"]),
		FirstSeen:    now,
		LastSeen:     now,

		PriceClassification: "unknown",
	}
}

// parsePostingDate accepts the two representations upstream producers emit:
// native datetimes (rendered as RFC 3339 by the extractor) and bare ISO-8601
// strings. An unparseable date leaves the field unset rather than dropping
// the record.
func parsePostingDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
