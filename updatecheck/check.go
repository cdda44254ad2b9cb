// Package updatecheck decides which app version to present to the user.
//
// A Checker compares the locally installed version with the newest version
// published on the backend, offers a download when a newer major line with a
// real binary is available, and caches the version it settles on. It runs its
// network work at most once per process.
package updatecheck

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/amonks/remindme/internal/kv"
	"github.com/amonks/remindme/version"
)

// CacheKey is the key-value store key holding the last settled version.
const CacheKey = "cachedVersion"

// ProfileProduction is the build profile in which downloads are never offered.
const ProfileProduction = "production"

// Fetcher looks up the latest published version. A negative major means no
// filter. It returns nil, nil when no version matches.
type Fetcher interface {
	LatestVersion(ctx context.Context, major int) (*version.Record, error)
}

// DownloadPrompter offers the user a newer build.
type DownloadPrompter interface {
	OfferDownload(ctx context.Context, record version.Record) error
}

// Options configures a Checker.
type Options struct {
	Fetcher Fetcher
	Store   kv.Store

	// LocalVersion is the installed version.
	LocalVersion string

	// Profile is the build profile, e.g. "production" or "preview".
	Profile string

	// Prompter is asked to offer downloads. Nil skips the offer.
	Prompter DownloadPrompter

	Logger *log.Logger
}

type checkState int

const (
	stateNotStarted checkState = iota
	stateInFlight
	stateDone
)

// Snapshot is the observable state of a Checker.
type Snapshot struct {
	LocalVersion string

	// BackendVersion is the version settled on from the backend, or empty.
	BackendVersion string

	// CurrentVersion is BackendVersion when set, otherwise LocalVersion.
	CurrentVersion string

	// Record is the backend record for BackendVersion, when one was fetched.
	Record *version.Record

	Checking bool
}

// Checker runs the version check.
type Checker struct {
	fetcher  Fetcher
	store    kv.Store
	local    string
	profile  string
	prompter DownloadPrompter
	logger   *log.Logger

	mu       sync.Mutex
	state    checkState
	snapshot Snapshot
}

// New returns a Checker that has not yet checked.
func New(opts Options) (*Checker, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("version fetcher is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("key-value store is required")
	}
	local := strings.TrimSpace(opts.LocalVersion)
	if local == "" {
		return nil, fmt.Errorf("local version is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "updatecheck: ", log.LstdFlags)
	}
	return &Checker{
		fetcher:  opts.Fetcher,
		store:    opts.Store,
		local:    local,
		profile:  strings.TrimSpace(opts.Profile),
		prompter: opts.Prompter,
		logger:   logger,
		snapshot: Snapshot{
			LocalVersion:   local,
			CurrentVersion: local,
			Checking:       true,
		},
	}, nil
}

// Snapshot returns the current state.
func (c *Checker) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Cached returns the version cached by a previous check, if any.
func (c *Checker) Cached() (string, bool) {
	data, ok, err := c.store.Get(CacheKey)
	if err != nil || !ok || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Check runs the version check once. Calls made while a check is running, or
// after it has finished, return the current snapshot without doing any work.
// Failures never surface as errors; the local version becomes current.
func (c *Checker) Check(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.state != stateNotStarted {
		snapshot := c.snapshot
		c.mu.Unlock()
		return snapshot
	}
	c.state = stateInFlight
	c.mu.Unlock()

	record, err := c.resolve(ctx)
	if err != nil {
		c.logger.Printf("version check failed, using local version %s: %v", c.local, err)
		record = &version.Record{Version: c.local}
		c.cache(c.local)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = stateDone
	c.snapshot.Checking = false
	if record != nil {
		c.snapshot.BackendVersion = record.Version
		c.snapshot.CurrentVersion = record.Version
		if record.ID != "" || record.ReleaseNotes != "" {
			c.snapshot.Record = record
		}
	}
	return c.snapshot
}

// resolve returns the backend record to settle on, or nil to keep the local
// version without a backend version.
func (c *Checker) resolve(ctx context.Context) (*version.Record, error) {
	localMajor, err := version.Major(c.local)
	if err != nil {
		return nil, fmt.Errorf("parse local version: %w", err)
	}

	latest, err := c.fetcher.LatestVersion(ctx, -1)
	if err != nil {
		return nil, fmt.Errorf("fetch latest version: %w", err)
	}
	if latest == nil {
		latest = &version.Record{Version: c.local}
	}
	latestMajor, err := version.Major(latest.Version)
	if err != nil {
		return nil, fmt.Errorf("parse latest version: %w", err)
	}

	switch {
	case latestMajor == localMajor:
		c.cache(latest.Version)
		return latest, nil

	case latestMajor > localMajor:
		if c.shouldOfferDownload(*latest) {
			if err := c.prompter.OfferDownload(ctx, *latest); err != nil {
				c.logger.Printf("offer download of %s: %v", latest.Version, err)
			}
		}
		compatible, err := c.fetcher.LatestVersion(ctx, localMajor)
		if err != nil {
			c.logger.Printf("fetch compatible version for major %d: %v", localMajor, err)
			return nil, nil
		}
		if compatible == nil || compatible.Version == "" {
			return nil, nil
		}
		c.cache(compatible.Version)
		return compatible, nil

	default:
		return nil, nil
	}
}

func (c *Checker) shouldOfferDownload(record version.Record) bool {
	return c.prompter != nil &&
		c.profile != ProfileProduction &&
		record.Type == version.TypeMajor &&
		version.IsRealDownloadURL(record.DownloadURL)
}

func (c *Checker) cache(v string) {
	if err := c.store.Set(CacheKey, []byte(v)); err != nil {
		c.logger.Printf("cache version %s: %v", v, err)
	}
}
