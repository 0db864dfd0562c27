// Package store implements C6: the filesystem-backed object store
// described in spec §4.6 — named object sets (currently users; message
// and file bases build on the same registry/payload shape) living under a
// registry of fixed-size records, a counter-index, and a payload directory
// grouped to keep any one directory from growing without bound.
//
// Grounded on vision3's internal/user/manager.go (load/save shape, default
// account bootstrap) and internal/jam's base.go/lock.go (single-writer
// discipline via a .bsy lock file, reused unmodified in lock.go).
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrUserNotFound = errors.New("store: user not found")
	ErrUserExists   = errors.New("store: username already exists")
)

const (
	userRegistryFile = "users.reg"
	userIndexFile    = "users.idx"
)

// UserRegistry is the on-disk user object set: a flat registry of
// fixed-width, XOR-masked records plus a 32-bit next-id counter.
type UserRegistry struct {
	mu           sync.RWMutex
	dir          string
	registryPath string
	indexPath    string
	byID         map[uint32]UserRecord
	nextID       uint32
}

// OpenUserRegistry loads (or initializes) the user registry rooted at dir.
func OpenUserRegistry(dir string) (*UserRegistry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", dir, err)
	}
	r := &UserRegistry{
		dir:          dir,
		registryPath: filepath.Join(dir, userRegistryFile),
		indexPath:    filepath.Join(dir, userIndexFile),
		byID:         map[uint32]UserRecord{},
		nextID:       1,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *UserRegistry) load() error {
	if idx, err := os.ReadFile(r.indexPath); err == nil && len(idx) >= 4 {
		r.nextID = binary.BigEndian.Uint32(idx)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: reading %s: %w", r.indexPath, err)
	}

	data, err := os.ReadFile(r.registryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("store: reading %s: %w", r.registryPath, err)
	}
	if len(data)%userRecordSize != 0 {
		return fmt.Errorf("store: %s has %d bytes, not a multiple of %d", r.registryPath, len(data), userRecordSize)
	}
	for off := 0; off < len(data); off += userRecordSize {
		raw := data[off : off+userRecordSize]
		id := binary.BigEndian.Uint32(raw[:4])
		plain := make([]byte, userRecordSize)
		copy(plain[:4], raw[:4])
		copy(plain[4:], xorMaskPayload(id, raw[4:]))
		rec, err := decodeUserRecord(plain)
		if err != nil {
			return fmt.Errorf("store: decoding record at offset %d: %w", off, err)
		}
		r.byID[rec.ID] = rec
	}
	return nil
}

// saveLocked rewrites the full registry via temp-file-then-rename, the
// store's only write primitive (spec §4.6 "Atomicity").
func (r *UserRegistry) saveLocked() error {
	return withFileLock(r.registryPath, func() error {
		ids := make([]uint32, 0, len(r.byID))
		for id := range r.byID {
			ids = append(ids, id)
		}
		// Deterministic record order (ascending ID) so repeated saves of
		// unchanged data produce byte-identical files.
		for i := 1; i < len(ids); i++ {
			for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
				ids[j-1], ids[j] = ids[j], ids[j-1]
			}
		}
		buf := make([]byte, 0, len(ids)*userRecordSize)
		for _, id := range ids {
			rec := r.byID[id]
			plain := encodeUserRecord(rec)
			masked := make([]byte, userRecordSize)
			copy(masked[:4], plain[:4])
			copy(masked[4:], xorMaskPayload(id, plain[4:]))
			buf = append(buf, masked...)
		}
		if err := atomicWriteFile(r.registryPath, buf); err != nil {
			return err
		}
		idxBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(idxBuf, r.nextID)
		return atomicWriteFile(r.indexPath, idxBuf)
	})
}

// atomicWriteFile writes data to a temp file in the same directory as path
// and renames it into place, so no reader ever observes a partial write.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("store: creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// AddUser creates a new record with the next available ID.
func (r *UserRegistry) AddUser(rec UserRecord) (UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Username, rec.Username) {
			return UserRecord{}, ErrUserExists
		}
	}
	rec.ID = r.nextID
	r.nextID++
	r.byID[rec.ID] = rec
	if err := r.saveLocked(); err != nil {
		return UserRecord{}, err
	}
	return rec, nil
}

// GetByUsername performs a case-insensitive username lookup.
func (r *UserRegistry) GetByUsername(username string) (UserRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byID {
		if strings.EqualFold(rec.Username, username) {
			return rec, true
		}
	}
	return UserRecord{}, false
}

// GetByID looks up a record by its registry ID.
func (r *UserRegistry) GetByID(id uint32) (UserRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	return rec, ok
}

// Update replaces the stored record for rec.ID and persists the registry.
func (r *UserRegistry) Update(rec UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; !ok {
		return ErrUserNotFound
	}
	r.byID[rec.ID] = rec
	return r.saveLocked()
}

// Each calls fn for every record in ascending-ID order; fn returning false
// stops iteration early. This is the "iterate bases/areas/items" operation
// of spec §4.6 specialized to the user object set.
func (r *UserRegistry) Each(fn func(UserRecord) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint32, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	for _, id := range ids {
		if !fn(r.byID[id]) {
			return
		}
	}
}

// Count reports the number of user records currently stored.
func (r *UserRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
