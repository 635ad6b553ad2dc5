// Package geoip maps client addresses to ISO country codes for audit logs.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"kovil/internal/cache"
)

// ErrUnavailable is returned when no GeoIP database was configured.
var ErrUnavailable = errors.New("geoip resolver unavailable")

const lookupTTL = time.Hour

// CountryReader is the part of *geoip2.Reader the resolver needs.
type CountryReader interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Close() error
}

// Resolver looks countries up in a MaxMind GeoIP2/GeoLite2 country database
// and remembers answers for an hour.
type Resolver struct {
	reader CountryReader
	seen   *cache.TTL[string]
}

// NewResolver opens the database at path. An empty path yields a nil resolver
// and no error; Lookup on a nil resolver always reports ErrUnavailable.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return NewResolverWithReader(reader), nil
}

func NewResolverWithReader(reader CountryReader) *Resolver {
	return &Resolver{reader: reader, seen: cache.New[string](lookupTTL)}
}

// CountryCode returns the ISO country code for ip. Loopback and private
// addresses resolve to "" without touching the database.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	if isLocal(parsed) {
		return "", nil
	}
	key := parsed.String()
	if code, ok := r.seen.Get(key); ok {
		return code, nil
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	code := ""
	if record != nil {
		code = record.Country.IsoCode
	}
	r.seen.Set(key, code)
	return code, nil
}

// Lookup adapts the resolver to a plain function, suitable for request
// middleware. A nil resolver yields a nil function.
func (r *Resolver) Lookup() func(ip string) (string, error) {
	if r == nil {
		return nil
	}
	return r.CountryCode
}

func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

func isLocal(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}
