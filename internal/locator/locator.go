package locator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/internal/storage"
	"github.com/rs/zerolog"
)

// LogLocator finds compressed WAF log objects for a range of days
type LogLocator struct {
	store  storage.ObjectStore
	logger zerolog.Logger
}

// NewLogLocator creates a locator over store
func NewLogLocator(store storage.ObjectStore, logger zerolog.Logger) *LogLocator {
	return &LogLocator{
		store:  store,
		logger: logger,
	}
}

// DayPrefix returns the partition prefix for a calendar day
func DayPrefix(day time.Time) string {
	return fmt.Sprintf("year=%04d/month=%02d/day=%02d/", day.Year(), int(day.Month()), day.Day())
}

// FindLogFiles lists every .gz object for each day from start to end inclusive
// and returns the keys sorted and without duplicates. A day whose listing fails
// is logged and skipped.
func (l *LogLocator) FindLogFiles(ctx context.Context, start, end time.Time) []string {
	seen := make(map[string]bool)
	keys := make([]string, 0)

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			break
		}

		prefix := DayPrefix(day)
		objects, err := l.store.ListObjects(ctx, prefix)
		if err != nil {
			l.logger.Warn().Err(err).Str("prefix", prefix).Msg("Error listing objects")
			continue
		}

		for _, obj := range objects {
			if !strings.HasSuffix(obj.Key, config.LogKeySuffix) || seen[obj.Key] {
				continue
			}
			seen[obj.Key] = true
			keys = append(keys, obj.Key)
		}
	}

	sort.Strings(keys)
	return keys
}
