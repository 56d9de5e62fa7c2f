package dns

import (
	"context"
	"net"
	"strings"
	"time"
)

// AddrResolver is the part of *net.Resolver used for reverse lookups
type AddrResolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// ReverseLookup resolves client addresses to host names, remembering answers
// for the lifetime of the value.
type ReverseLookup struct {
	resolver AddrResolver
	cache    map[string]string
	timeout  time.Duration
}

// NewReverseLookup creates a lookup backed by the system resolver
func NewReverseLookup() *ReverseLookup {
	return NewReverseLookupWithResolver(net.DefaultResolver)
}

// NewReverseLookupWithResolver creates a lookup backed by r
func NewReverseLookupWithResolver(r AddrResolver) *ReverseLookup {
	return &ReverseLookup{
		resolver: r,
		cache:    make(map[string]string),
		timeout:  2 * time.Second,
	}
}

// Lookup returns the first PTR name for ip without the trailing dot, or ip
// itself when the lookup fails, times out or ip is not an address.
func (d *ReverseLookup) Lookup(ctx context.Context, ip string) string {
	if hostname, ok := d.cache[ip]; ok {
		return hostname
	}

	hostname := ip
	if net.ParseIP(ip) != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, d.timeout)
		names, err := d.resolver.LookupAddr(lookupCtx, ip)
		cancel()
		if err == nil && len(names) > 0 {
			hostname = strings.TrimSuffix(names[0], ".")
		}
	}

	d.cache[ip] = hostname
	return hostname
}

// BulkLookup resolves ips one after another
func (d *ReverseLookup) BulkLookup(ctx context.Context, ips []string) map[string]string {
	results := make(map[string]string, len(ips))
	for _, ip := range ips {
		if ctx.Err() != nil {
			break
		}
		results[ip] = d.Lookup(ctx, ip)
	}
	return results
}

// CacheSize returns the current cache size
func (d *ReverseLookup) CacheSize() int {
	return len(d.cache)
}
