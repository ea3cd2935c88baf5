// Package mark holds the named reference points that a map calibration is fitted to.
package mark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"mapscale/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// ErrNoMarks is returned when a store would be built from an empty list.
// Extents are undefined without at least one mark.
var ErrNoMarks = errors.New("no marks provided")

// Mark is a named reference point in mark space.
// ID is the identity; Name may repeat across marks.
type Mark struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Location geometry.Point3D `json:"location"`
}

// Extents is the axis-aligned bounding box of all mark locations.
type Extents struct {
	Min geometry.Point2D
	Max geometry.Point2D
}

// Span returns Max - Min per axis. A zero component means every mark shares
// that coordinate.
func (e Extents) Span() geometry.Point2D {
	return e.Max.Sub(e.Min)
}

// Store is an immutable, non-empty list of marks.
type Store struct {
	marks   []Mark
	extents Extents
}

// NewStore copies marks into a new store and precomputes their extents.
func NewStore(marks []Mark) (*Store, error) {
	if len(marks) == 0 {
		return nil, ErrNoMarks
	}

	owned := make([]Mark, len(marks))
	copy(owned, marks)

	xs := make([]float64, len(owned))
	ys := make([]float64, len(owned))
	for i, m := range owned {
		xs[i] = m.Location.X
		ys[i] = m.Location.Y
	}

	return &Store{
		marks: owned,
		extents: Extents{
			Min: geometry.Point2D{X: floats.Min(xs), Y: floats.Min(ys)},
			Max: geometry.Point2D{X: floats.Max(xs), Y: floats.Max(ys)},
		},
	}, nil
}

// Len returns the number of marks.
func (s *Store) Len() int {
	return len(s.marks)
}

// All returns a copy of the marks in load order.
func (s *Store) All() []Mark {
	out := make([]Mark, len(s.marks))
	copy(out, s.marks)
	return out
}

// Each calls fn for every mark in load order without copying the list.
func (s *Store) Each(fn func(Mark)) {
	for _, m := range s.marks {
		fn(m)
	}
}

// Extents returns the bounding box of all mark locations.
func (s *Store) Extents() Extents {
	return s.extents
}

// Decode reads a JSON array of marks.
func Decode(r io.Reader) ([]Mark, error) {
	var marks []Mark
	if err := json.NewDecoder(r).Decode(&marks); err != nil {
		return nil, fmt.Errorf("failed to decode marks: %w", err)
	}
	return marks, nil
}

// LoadFile reads a JSON array of marks from path and builds a store.
func LoadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open marks: %w", err)
	}
	defer file.Close()

	marks, err := Decode(file)
	if err != nil {
		return nil, err
	}
	return NewStore(marks)
}
