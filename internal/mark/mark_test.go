package mark

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapscale/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(x, y float64) geometry.Point3D {
	return geometry.Point3D{X: x, Y: y}
}

func TestNewStore_Empty(t *testing.T) {
	_, err := NewStore(nil)
	assert.True(t, errors.Is(err, ErrNoMarks))

	_, err = NewStore([]Mark{})
	assert.True(t, errors.Is(err, ErrNoMarks))
}

func TestNewStore_Extents(t *testing.T) {
	store, err := NewStore([]Mark{
		{ID: "a", Name: "Alpha", Location: loc(-120000, 400)},
		{ID: "b", Name: "Bravo", Location: loc(35000, -98000)},
		{ID: "c", Name: "Alpha", Location: loc(118000, 121000)},
	})
	require.NoError(t, err)

	ext := store.Extents()
	assert.Equal(t, geometry.Point2D{X: -120000, Y: -98000}, ext.Min)
	assert.Equal(t, geometry.Point2D{X: 118000, Y: 121000}, ext.Max)
	assert.Equal(t, geometry.Point2D{X: 238000, Y: 219000}, ext.Span())
	assert.Equal(t, 3, store.Len())
}

func TestNewStore_SingleMarkHasZeroSpan(t *testing.T) {
	store, err := NewStore([]Mark{{ID: "only", Location: loc(5, 7)}})
	require.NoError(t, err)

	assert.Equal(t, geometry.Point2D{}, store.Extents().Span())
}

func TestStore_IsImmutable(t *testing.T) {
	input := []Mark{{ID: "a", Name: "Alpha", Location: loc(1, 1)}}
	store, err := NewStore(input)
	require.NoError(t, err)

	input[0].Name = "changed"
	got := store.All()
	assert.Equal(t, "Alpha", got[0].Name)

	got[0].Name = "changed again"
	assert.Equal(t, "Alpha", store.All()[0].Name)
}

func TestStore_EachKeepsOrder(t *testing.T) {
	store, err := NewStore([]Mark{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	require.NoError(t, err)

	var ids []string
	store.Each(func(m Mark) { ids = append(ids, m.ID) })
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestDecode(t *testing.T) {
	data := `[
		{"id": "poi_01", "name": "Lazy Lake", "location": {"x": -1000.5, "y": 2000, "z": 12}},
		{"id": "poi_02", "name": "Lazy Lake", "location": {"x": 3000, "y": -4000, "z": 0}}
	]`

	marks, err := Decode(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, marks, 2)

	assert.Equal(t, "poi_01", marks[0].ID)
	assert.Equal(t, "Lazy Lake", marks[0].Name)
	assert.Equal(t, geometry.Point3D{X: -1000.5, Y: 2000, Z: 12}, marks[0].Location)
	assert.Equal(t, marks[0].Name, marks[1].Name)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id": 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode marks")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","name":"A","location":{"x":1,"y":2,"z":3}}]`), 0644))

	store, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestLoadFile_EmptyList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	_, err := LoadFile(path)
	assert.True(t, errors.Is(err, ErrNoMarks))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/marks.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open marks")
}
