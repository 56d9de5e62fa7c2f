package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hpowernl/wafcli/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayPrefix(t *testing.T) {
	assert.Equal(t, "year=2024/month=01/day=05/", DayPrefix(day(2024, time.January, 5)))
	assert.Equal(t, "year=2023/month=12/day=31/", DayPrefix(day(2023, time.December, 31)))
}

func TestFindLogFiles(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Put("year=2024/month=01/day=31/b.log.gz", nil)
	store.Put("year=2024/month=01/day=31/a.log.gz", nil)
	store.Put("year=2024/month=01/day=31/manifest.json", nil)
	store.Put("year=2024/month=02/day=01/00/c.log.gz", nil)
	store.Put("year=2024/month=02/day=03/outside.log.gz", nil)

	l := NewLogLocator(store, zerolog.Nop())
	keys := l.FindLogFiles(context.Background(), day(2024, time.January, 31), day(2024, time.February, 2))

	assert.Equal(t, []string{
		"year=2024/month=01/day=31/a.log.gz",
		"year=2024/month=01/day=31/b.log.gz",
		"year=2024/month=02/day=01/00/c.log.gz",
	}, keys)
	assert.Equal(t, []string{
		"year=2024/month=01/day=31/",
		"year=2024/month=02/day=01/",
		"year=2024/month=02/day=02/",
	}, store.ListCalls)
}

func TestFindLogFilesSkipsFailingDay(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Put("year=2024/month=03/day=01/a.gz", nil)
	store.Put("year=2024/month=03/day=02/b.gz", nil)
	store.Put("year=2024/month=03/day=03/c.gz", nil)
	store.ListErrors["year=2024/month=03/day=02/"] = errors.New("AccessDenied")

	keys := NewLogLocator(store, zerolog.Nop()).
		FindLogFiles(context.Background(), day(2024, time.March, 1), day(2024, time.March, 3))

	assert.Equal(t, []string{"year=2024/month=03/day=01/a.gz", "year=2024/month=03/day=03/c.gz"}, keys)
}

func TestFindLogFilesStartAfterEnd(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Put("year=2024/month=03/day=01/a.gz", nil)

	keys := NewLogLocator(store, zerolog.Nop()).
		FindLogFiles(context.Background(), day(2024, time.March, 2), day(2024, time.March, 1))

	assert.Empty(t, keys)
	assert.Empty(t, store.ListCalls)
}
