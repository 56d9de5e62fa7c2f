package logreader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hpowernl/wafcli/internal/parser"
	"github.com/hpowernl/wafcli/internal/storage"
	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// LogReader downloads and parses gzip-compressed WAF log objects
type LogReader struct {
	store  storage.ObjectStore
	parser *parser.LogParser
	logger zerolog.Logger
}

// NewLogReader creates a new log reader
func NewLogReader(store storage.ObjectStore, logger zerolog.Logger) *LogReader {
	return &LogReader{
		store:  store,
		parser: parser.NewLogParser(),
		logger: logger,
	}
}

// ReadFiles fetches keys in order and returns every record that parsed.
// maxFiles bounds the number of successfully processed files; 0 means no limit.
// A file that cannot be fetched or decompressed is logged and skipped, and
// lines that are not valid JSON objects are dropped without notice.
func (r *LogReader) ReadFiles(ctx context.Context, keys []string, maxFiles int) ([]*models.LogRecord, models.FetchStats) {
	var stats models.FetchStats
	records := make([]*models.LogRecord, 0)

	for _, key := range keys {
		if maxFiles > 0 && stats.FilesProcessed >= maxFiles {
			break
		}
		if ctx.Err() != nil {
			break
		}

		r.logger.Info().Str("key", key).Msg("Processing log file")
		fileRecords, err := r.ReadFile(ctx, key)
		if err != nil {
			stats.FilesFailed++
			r.logger.Error().Err(err).Str("key", key).Msg("Error processing log file")
			continue
		}

		records = append(records, fileRecords...)
		stats.FilesProcessed++
	}

	stats.Records = len(records)
	r.logger.Info().
		Int("files", stats.FilesProcessed).
		Int("failed", stats.FilesFailed).
		Int("entries", stats.Records).
		Msg("Finished reading log files")

	return records, stats
}

// ReadFile fetches and parses a single object. The whole object is
// decompressed before parsing so a truncated archive fails the file as a unit.
func (r *LogReader) ReadFile(ctx context.Context, key string) ([]*models.LogRecord, error) {
	raw, err := r.store.GetObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object: %w", err)
	}

	content, err := decompress(raw)
	if err != nil {
		return nil, err
	}

	return r.ParseLines(bytes.NewReader(content))
}

// ParseLines parses newline-delimited JSON from rd
func (r *LogReader) ParseLines(rd io.Reader) ([]*models.LogRecord, error) {
	records := make([]*models.LogRecord, 0)

	scanner := bufio.NewScanner(rd)
	// Increase buffer size for large log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	for scanner.Scan() {
		if record, err := r.parser.ParseLine(scanner.Text()); err == nil && record != nil {
			records = append(records, record)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log lines: %w", err)
	}
	return records, nil
}

func decompress(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	content, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return content, nil
}
