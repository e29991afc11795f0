package capture

import (
	"sync"
	"time"
)

// domainProfile records what a domain required on its last successful
// capture, with a TTL.
type domainProfile struct {
	needsStealth bool
	expiresAt    time.Time
}

// DomainMemory remembers per-domain capture profiles, so a site that only
// answered with stealth enabled gets stealth on the first try next time.
// Entries expire after the configured TTL and are pruned periodically.
type DomainMemory struct {
	store sync.Map // domain (string) -> *domainProfile
	ttl   time.Duration
	done  chan struct{}
}

// NewDomainMemory creates a DomainMemory with the given TTL and starts a
// background goroutine that prunes expired entries every hour.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	dm := &DomainMemory{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go dm.cleanupLoop()
	return dm
}

// NeedsStealth reports whether the domain is remembered as requiring
// stealth. Unknown or expired domains report false.
func (dm *DomainMemory) NeedsStealth(domain string) bool {
	val, ok := dm.store.Load(domain)
	if !ok {
		return false
	}
	profile := val.(*domainProfile)
	if time.Now().After(profile.expiresAt) {
		dm.store.Delete(domain)
		return false
	}
	return profile.needsStealth
}

// Record stores whether the domain's last successful capture used stealth.
func (dm *DomainMemory) Record(domain string, needsStealth bool) {
	dm.store.Store(domain, &domainProfile{
		needsStealth: needsStealth,
		expiresAt:    time.Now().Add(dm.ttl),
	})
}

// Forget removes the profile for a domain.
func (dm *DomainMemory) Forget(domain string) {
	dm.store.Delete(domain)
}

// Stop terminates the background cleanup goroutine.
func (dm *DomainMemory) Stop() {
	close(dm.done)
}

func (dm *DomainMemory) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-dm.done:
			return
		case <-ticker.C:
			now := time.Now()
			dm.store.Range(func(key, value any) bool {
				profile := value.(*domainProfile)
				if now.After(profile.expiresAt) {
					dm.store.Delete(key)
				}
				return true
			})
		}
	}
}
