package cache

import (
	"errors"

	"copyselect/internal/cache/store"
	"copyselect/internal/ranges"
)

// Hydrate replaces the in-memory state with the backend's snapshot.
// Entries that cannot be decoded, have invalid bounds or overlap an earlier
// entry of the same file are dropped and logged; dropped counts them. A
// backend that cannot be read at all leaves the Store empty and returns a
// *PersistenceError.
func (s *Store) Hydrate() (dropped int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[Path]*ranges.Set)
	if s.backend == nil {
		return 0, nil
	}

	snap, err := s.backend.Load()
	var malformed *store.MalformedError
	switch {
	case errors.As(err, &malformed):
		for _, entry := range malformed.Entries {
			log.Warningf("dropping malformed selection %v", entry)
		}
		dropped += len(malformed.Entries)
	case err != nil:
		log.Warningf("failed to load selections: %v", err)
		return 0, &PersistenceError{Op: "load", Err: err}
	}

	for _, path := range snap.Paths() {
		set, errs := ranges.Restore(snap[path])
		for _, err := range errs {
			log.Warningf("dropping selection of %s: %v", path, err)
		}
		dropped += len(errs)
		s.put(path, set)
	}

	log.Infof("restored selections for %d files", len(s.files))
	return dropped, nil
}

// Snapshot returns the persisted form of the current state.
func (s *Store) Snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() store.Snapshot {
	snap := make(store.Snapshot, len(s.files))
	for path, set := range s.files {
		snap[path] = set.Ranges()
	}
	return snap
}
