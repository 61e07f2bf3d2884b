// Package directory implements the Vehicle Directory (C6): a TTL-bounded
// cache over the IMEI->identity persistence collaborator, with transient
// identity synthesis for unknown devices.
package directory

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Identity is what the rest of the gateway needs about a vehicle: its LATRA
// registration and whether that registration was looked up or synthesized.
type Identity struct {
	IMEI         string
	Registration string
	Transient    bool
}

// Persistence is the collaborator the directory falls back to on a cache
// miss (implemented in production by main.go's vehicleLookup adapter over
// *store.DB).
type Persistence interface {
	FindVehicleByIMEI(imei string) (registration string, found bool, err error)
}

// DefaultTTL is the cache freshness window named by spec.md §4.6.
const DefaultTTL = 5 * time.Minute

// Directory is safe for concurrent use.
type Directory struct {
	ttl     time.Duration
	cache   *gocache.Cache
	persist Persistence
	group   singleflight.Group
}

// New builds a Directory backed by persist, using DefaultTTL.
func New(persist Persistence) *Directory {
	return NewWithTTL(persist, DefaultTTL)
}

// NewWithTTL builds a Directory with an operator-configured freshness
// window. Entries expire after ttl and an opportunistic sweep runs on the
// same cadence (spec.md §4.6: "if the last sweep was more than ttl ago,
// evict entries older than ttl" is exactly go-cache's own cleanup-interval
// semantics).
func NewWithTTL(persist Persistence, ttl time.Duration) *Directory {
	return &Directory{
		ttl:     ttl,
		cache:   gocache.New(ttl, ttl),
		persist: persist,
	}
}

// Lookup returns the vehicle identity for imei, serving from cache when
// fresh, otherwise querying the persistence collaborator. Concurrent lookups
// for the same IMEI collapse onto a single persistence query via
// singleflight. A miss synthesizes a transient identity from the IMEI's last
// six digits and is deliberately not cached, so a late database insert is
// picked up on the very next lookup (spec.md §4.6).
func (d *Directory) Lookup(imei string) (Identity, error) {
	if cached, ok := d.cache.Get(imei); ok {
		return cached.(Identity), nil
	}

	result, err, _ := d.group.Do(imei, func() (interface{}, error) {
		registration, found, err := d.persist.FindVehicleByIMEI(imei)
		if err != nil {
			return Identity{}, fmt.Errorf("lookup vehicle %s: %w", imei, err)
		}
		if !found {
			return Identity{
				IMEI:         imei,
				Registration: transientRegistration(imei),
				Transient:    true,
			}, nil
		}
		identity := Identity{IMEI: imei, Registration: registration}
		d.cache.Set(imei, identity, d.ttl)
		return identity, nil
	})
	if err != nil {
		return Identity{}, err
	}
	return result.(Identity), nil
}

// transientRegistration synthesizes a placeholder registration from the
// last six digits of an unregistered device's IMEI.
func transientRegistration(imei string) string {
	if len(imei) <= 6 {
		return imei
	}
	return imei[len(imei)-6:]
}
