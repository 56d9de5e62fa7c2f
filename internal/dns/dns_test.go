package dns

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	names map[string][]string
	calls int
}

func (f *fakeResolver) LookupAddr(_ context.Context, addr string) ([]string, error) {
	f.calls++
	if names, ok := f.names[addr]; ok {
		return names, nil
	}
	return nil, errors.New("no such host")
}

func TestLookup(t *testing.T) {
	r := &fakeResolver{names: map[string][]string{
		"203.0.113.7": {"crawler.example.net.", "alias.example.net."},
	}}
	d := NewReverseLookupWithResolver(r)

	assert.Equal(t, "crawler.example.net", d.Lookup(context.Background(), "203.0.113.7"))
	assert.Equal(t, "198.51.100.1", d.Lookup(context.Background(), "198.51.100.1"))
	assert.Equal(t, "Unknown", d.Lookup(context.Background(), "Unknown"))

	// cached answers skip the resolver
	d.Lookup(context.Background(), "203.0.113.7")
	assert.Equal(t, 2, r.calls)
	assert.Equal(t, 3, d.CacheSize())
}

func TestBulkLookup(t *testing.T) {
	r := &fakeResolver{names: map[string][]string{"192.0.2.1": {"host.example."}}}
	d := NewReverseLookupWithResolver(r)

	got := d.BulkLookup(context.Background(), []string{"192.0.2.1", "192.0.2.2"})
	assert.Equal(t, map[string]string{
		"192.0.2.1": "host.example",
		"192.0.2.2": "192.0.2.2",
	}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, d.BulkLookup(ctx, []string{"192.0.2.3"}))
}
