package checker

import (
	"errors"
	"fmt"
	"os"
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/edsrzf/mmap-go"
)

// minSeenCapacity is the smallest number of URLs a SeenTracker is sized for.
const minSeenCapacity = 1000

// SeenTracker records which URLs a run has already encountered, using a bloom
// filter mirrored into a memory-mapped temp file so large inputs keep a
// constant memory footprint. Without a temp file the filter stays in memory. The file is removed on Close; nothing persists
// across runs. Like any bloom filter it can report false positives (0.1%)
// but never false negatives.
type SeenTracker struct {
	mu        sync.Mutex
	filter    *bloom.BloomFilter
	file      *os.File
	mmap      mmap.MMap
	tmpPath   string
	count     uint64 // URLs added since last sync
	syncEvery uint64 // Sync to disk every N URLs
	lastErr   error  // Last error from sync operations
}

// NewSeenTracker creates a tracker sized for the expected number of URLs.
func NewSeenTracker(expected int) (*SeenTracker, error) {
	filter := bloom.NewWithEstimates(uint(max(expected, minSeenCapacity)), 0.001)

	tmpFile, err := os.CreateTemp("", "linkchecker-seen-*.bloom")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	data, err := filter.MarshalBinary()
	if err != nil {
		cleanupTemp(tmpFile)
		return nil, fmt.Errorf("marshal bloom filter: %w", err)
	}

	// The marshaled form carries a header in front of the bit set
	if err := tmpFile.Truncate(int64(len(data))); err != nil {
		cleanupTemp(tmpFile)
		return nil, fmt.Errorf("truncate temp file: %w", err)
	}

	mapped, err := mmap.MapRegion(tmpFile, len(data), mmap.RDWR, 0, 0)
	if err != nil {
		cleanupTemp(tmpFile)
		return nil, fmt.Errorf("mmap temp file: %w", err)
	}
	copy(mapped, data)

	return &SeenTracker{
		filter:    filter,
		file:      tmpFile,
		mmap:      mapped,
		tmpPath:   tmpPath,
		syncEvery: 1000,
	}, nil
}

// newMemorySeenTracker creates a tracker whose filter lives only in memory.
func newMemorySeenTracker(expected int) *SeenTracker {
	return &SeenTracker{
		filter:    bloom.NewWithEstimates(uint(max(expected, minSeenCapacity)), 0.001),
		syncEvery: 1000,
	}
}

// cleanupTemp closes and removes the temp file of a tracker that failed to initialize.
func cleanupTemp(file *os.File) {
	_ = file.Close()
	_ = os.Remove(file.Name())
}

// VisitIfNew atomically checks whether url was seen and records it if not.
// Returns true if the URL was new.
func (s *SeenTracker) VisitIfNew(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.TestAndAddString(url) {
		return false
	}

	s.count++
	if s.mmap != nil && s.count >= s.syncEvery {
		// Periodic sync is best-effort; the error surfaces from Close
		if err := s.syncLocked(); err != nil {
			s.lastErr = err
		}
	}
	return true
}

// syncLocked copies the filter into the mapped file. Must be called with mu held.
func (s *SeenTracker) syncLocked() error {
	if s.mmap == nil {
		s.count = 0
		return nil
	}
	data, err := s.filter.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal bloom filter: %w", err)
	}

	if len(data) <= len(s.mmap) {
		copy(s.mmap, data)
	}

	if err := s.mmap.Flush(); err != nil {
		return fmt.Errorf("flush mmap: %w", err)
	}
	s.count = 0
	return nil
}

// Close syncs pending data, unmaps the file, and removes it.
func (s *SeenTracker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.lastErr != nil {
		errs = append(errs, s.lastErr)
	}

	if s.mmap != nil {
		if s.count > 0 {
			if err := s.syncLocked(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.mmap.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		s.mmap = nil
	}

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		s.file = nil
	}

	if s.tmpPath != "" {
		if err := os.Remove(s.tmpPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove temp file: %w", err))
		}
		s.tmpPath = ""
	}

	if len(errs) > 0 {
		return fmt.Errorf("close seen tracker: %w", errors.Join(errs...))
	}
	return nil
}

// exactSet is a duplicate set that never reports false positives.
type exactSet map[string]struct{}

func (s exactSet) VisitIfNew(url string) bool {
	if _, ok := s[url]; ok {
		return false
	}
	s[url] = struct{}{}
	return true
}

func (exactSet) Close() error { return nil }
