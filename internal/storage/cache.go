// cache.go - In-memory cache for today's health records

package storage

import (
	"sync"
	"time"
)

// healthRecordEntry caches one user's health-record context for a day key,
// so repeated face/body calls within a session skip the document read.
type healthRecordEntry struct {
	Record   map[string]interface{}
	LoadedAt time.Time
}

// Cache map: "uid|day" -> entry
var healthRecordCache = make(map[string]*healthRecordEntry)
var cacheMutex sync.RWMutex

const CACHE_TTL = 5 * time.Minute // Cache expires after 5 minutes

// GetOrLoadHealthRecord retrieves today's health record from cache or loads
// it from the document store.
func GetOrLoadHealthRecord(uid, dayKey string) (map[string]interface{}, error) {
	key := uid + "|" + dayKey

	cacheMutex.RLock()
	entry, exists := healthRecordCache[key]
	cacheMutex.RUnlock()

	if exists && time.Since(entry.LoadedAt) < CACHE_TTL {
		return entry.Record, nil
	}

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Double-check after acquiring write lock
	entry, exists = healthRecordCache[key]
	if exists && time.Since(entry.LoadedAt) < CACHE_TTL {
		return entry.Record, nil
	}

	record, err := GetTodayHealthRecord(uid, dayKey)
	if err != nil {
		return nil, err
	}

	healthRecordCache[key] = &healthRecordEntry{
		Record:   record,
		LoadedAt: time.Now(),
	}
	return record, nil
}

// InvalidateHealthRecord removes the cached record for one user/day, called
// after a new analysis is persisted.
func InvalidateHealthRecord(uid, dayKey string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	delete(healthRecordCache, uid+"|"+dayKey)
}

// ClearAllCache removes all cached records
func ClearAllCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	healthRecordCache = make(map[string]*healthRecordEntry)
}
