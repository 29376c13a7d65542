package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/solat/internal/api"
)

const (
	scheduleFile = "prayer_times.json"
	zonesFile    = "zones.json"
)

// ErrNoCache is returned when no schedule has been cached yet.
var ErrNoCache = errors.New("no cached prayer schedule")

// ScheduleFetcher fetches a zone's monthly schedule. *api.Client implements it.
type ScheduleFetcher interface {
	FetchSchedule(ctx context.Context, zone string) (*api.Schedule, error)
}

// ZoneFetcher fetches the zone catalog. *api.Client implements it.
type ZoneFetcher interface {
	FetchZones(ctx context.Context) ([]api.Zone, error)
}

// Cache provides file-based caching for the prayer schedule and zone catalog.
type Cache struct {
	dir string
}

// DefaultDir returns ~/.cache/solat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "solat"), nil
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/solat/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// SchedulePath returns the path of the prayer cache file.
func (c *Cache) SchedulePath() string {
	return filepath.Join(c.dir, scheduleFile)
}

// LoadSchedule reads the cached schedule document. It returns ErrNoCache when
// the file does not exist and a decode error when it is not valid JSON.
// The returned document is not validated.
func (c *Cache) LoadSchedule() (*api.Schedule, error) {
	data, err := os.ReadFile(c.SchedulePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoCache
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var s api.Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode cache file: %w", err)
	}
	s.Raw = data

	return &s, nil
}

// SaveSchedule overwrites the cache file with the document. The raw response
// body is written when available so the file matches what the API returned.
func (c *Cache) SaveSchedule(s *api.Schedule) error {
	data := []byte(s.Raw)
	if len(data) == 0 {
		var err error
		data, err = json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal schedule: %w", err)
		}
	}

	if err := os.WriteFile(c.SchedulePath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// CachedZone returns the zone of the cached document, or "" when there is no
// readable cache.
func (c *Cache) CachedZone() string {
	s, err := c.LoadSchedule()
	if err != nil {
		return ""
	}
	return api.NormalizeZone(s.Zone)
}

// Load returns the schedule for zone, preferring the cached document.
//
// The cache is bypassed and the API consulted when the file is missing,
// unreadable or incomplete, belongs to another zone, or covers a different
// calendar month than now. When that fetch fails, a complete cached document
// for the same zone is returned instead.
func (c *Cache) Load(ctx context.Context, f ScheduleFetcher, zone string, now time.Time) (*api.Schedule, error) {
	zone = api.NormalizeZone(zone)

	cached, err := c.LoadSchedule()
	var reason string
	switch {
	case errors.Is(err, ErrNoCache):
		reason = "no cache"
	case err != nil:
		reason = "unreadable cache"
		log.Warn().Err(err).Str("path", c.SchedulePath()).Msg("ignoring cache file")
		cached = nil
	case cached.Validate() != nil:
		reason = "incomplete cache"
		cached = nil
	case api.NormalizeZone(cached.Zone) != zone:
		reason = "zone changed"
		cached = nil
	case !cached.Covers(now):
		reason = "stale cache"
	default:
		return cached, nil
	}

	log.Info().Str("zone", zone).Str("reason", reason).Msg("fetching prayer schedule")

	fresh, err := c.Refresh(ctx, f, zone)
	if err == nil {
		return fresh, nil
	}

	if cached != nil {
		log.Warn().Err(err).Str("zone", zone).Msg("fetch failed, using cached schedule")
		return cached, nil
	}

	return nil, fmt.Errorf("load schedule for %s: %w", zone, err)
}

// Refresh fetches the schedule for zone unconditionally and overwrites the
// cache file. A failure to persist is logged; the fetched document is still
// returned.
func (c *Cache) Refresh(ctx context.Context, f ScheduleFetcher, zone string) (*api.Schedule, error) {
	s, err := f.FetchSchedule(ctx, api.NormalizeZone(zone))
	if err != nil {
		return nil, err
	}

	if err := c.SaveSchedule(s); err != nil {
		log.Warn().Err(err).Str("zone", s.Zone).Msg("could not persist prayer schedule")
	}

	return s, nil
}

// LoadZones returns the zone catalog from zones.json, fetching and writing it
// only when the file is absent or unusable.
func (c *Cache) LoadZones(ctx context.Context, f ZoneFetcher) ([]api.Zone, error) {
	path := filepath.Join(c.dir, zonesFile)

	if data, err := os.ReadFile(path); err == nil {
		var zones []api.Zone
		if err := json.Unmarshal(data, &zones); err == nil && len(zones) > 0 {
			return zones, nil
		}
		log.Warn().Str("path", path).Msg("zone catalog unreadable, fetching again")
	}

	zones, err := f.FetchZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch zone catalog: %w", err)
	}

	data, err := json.Marshal(zones)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal zone catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not persist zone catalog")
	}

	return zones, nil
}
