package registry

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"gazette/internal/dataset"
)

// shortIDLength is the length of minted record identifiers. The tokens are
// the leading characters of a v4 UUID, which keeps them short enough for
// image file names while still drawing from a high-entropy source.
const shortIDLength = 8

const maxMintAttempts = 100

// Occurrence locates one use of an identifier within the dataset tree.
type Occurrence struct {
	File  *dataset.File
	Index int
}

// Record returns the record at this occurrence.
func (o Occurrence) Record() *dataset.Record {
	return o.File.Records[o.Index]
}

// Collision is an identifier claimed by more than one record.
type Collision struct {
	ID          string // lower-cased form
	Occurrences []Occurrence
}

// Registry maps every identifier in the dataset tree, compared
// case-insensitively, to the records that claim it. Freshly minted
// identifiers are reserved in the same map so a single pass can never
// introduce a new collision.
type Registry struct {
	occurrences map[string][]Occurrence
}

// Build scans the loaded files and indexes every record that carries an id.
// Records without an id are not eligible for collision detection and are
// skipped.
func Build(files []*dataset.File) *Registry {
	r := &Registry{occurrences: make(map[string][]Occurrence)}
	for _, file := range files {
		for idx, record := range file.Records {
			if record.ID == "" {
				continue
			}
			key := strings.ToLower(record.ID)
			r.occurrences[key] = append(r.occurrences[key], Occurrence{File: file, Index: idx})
		}
	}
	return r
}

// Has reports whether the identifier is already claimed, case-insensitively.
func (r *Registry) Has(id string) bool {
	_, ok := r.occurrences[strings.ToLower(id)]
	return ok
}

// Reserve claims an identifier so later mints cannot collide with it.
func (r *Registry) Reserve(id string, occ Occurrence) {
	key := strings.ToLower(id)
	r.occurrences[key] = append(r.occurrences[key], occ)
}

// Collisions returns every identifier with more than one occurrence, sorted
// by identifier so resolution order is reproducible.
func (r *Registry) Collisions() []Collision {
	var collisions []Collision
	for id, occs := range r.occurrences {
		if len(occs) > 1 {
			collisions = append(collisions, Collision{ID: id, Occurrences: occs})
		}
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].ID < collisions[j].ID
	})
	return collisions
}

// MintID draws a fresh short identifier, re-drawing until it does not clash
// with any identifier known to the registry, including ones minted earlier
// in the same run. The caller must Reserve the result once committed.
func (r *Registry) MintID() (string, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		candidate := uuid.NewString()[:shortIDLength]
		if !r.Has(candidate) {
			return candidate, nil
		}
	}
	return "", errors.New("mint id: exhausted attempts without finding a free identifier")
}
