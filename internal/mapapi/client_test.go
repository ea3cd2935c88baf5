package mapapi

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mapscale/internal/mark"
	"mapscale/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapBody = `{
	"status": 200,
	"data": {
		"images": {"blank": "https://example.test/map.png", "pois": "https://example.test/map_en.png"},
		"pois": [
			{"id": "poi_a", "name": "Pleasant Park", "location": {"x": -84000, "y": 41000, "z": 1200}},
			{"id": "poi_b", "name": "Retail Row", "location": {"x": 62000, "y": -57000, "z": 980}}
		]
	}
}`

func TestNew_TrimsTrailingSlashAndDefaultsLanguage(t *testing.T) {
	c := New("https://api.example.test/", "", "", time.Second)

	assert.Equal(t, "https://api.example.test", c.baseURL)
	assert.Equal(t, "en", c.language)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

func TestMap_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/map", r.URL.Path)
		assert.Equal(t, "de", r.URL.Query().Get("language"))
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(mapBody))
	}))
	defer server.Close()

	c := New(server.URL, "secret", "de", 5*time.Second)
	info, err := c.Map(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/map_en.png", info.Images.POIs)
	assert.Equal(t, "https://example.test/map.png", info.Images.Blank)
	require.Len(t, info.POIs, 2)
	assert.Equal(t, mark.Mark{
		ID:       "poi_a",
		Name:     "Pleasant Park",
		Location: geometry.Point3D{X: -84000, Y: 41000, Z: 1200},
	}, info.POIs[0])
}

func TestMap_NoAuthorizationWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(mapBody))
	}))
	defer server.Close()

	_, err := New(server.URL, "", "en", time.Second).Map(context.Background())
	require.NoError(t, err)
}

func TestMap_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := New(server.URL, "", "en", time.Second).Map(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadStatus))
	assert.Contains(t, err.Error(), "401")
}

func TestMap_BodyStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 400, "error": "invalid language"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "", "xx", time.Second).Map(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadStatus))
	assert.Contains(t, err.Error(), "invalid language")
}

func TestMap_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":`))
	}))
	defer server.Close()

	_, err := New(server.URL, "", "en", time.Second).Map(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode map response")
}

func TestMap_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mapBody))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL, "", "en", time.Second).Map(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMarks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mapBody))
	}))
	defer server.Close()

	store, err := New(server.URL, "", "en", time.Second).Marks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, geometry.Point2D{X: -84000, Y: -57000}, store.Extents().Min)
}

func TestMarks_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 200, "data": {"pois": []}}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "", "en", time.Second).Marks(context.Background())
	assert.True(t, errors.Is(err, mark.ErrNoMarks))
}

func TestImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/map_en.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	url := server.URL + "/images/map_en.png"
	bg, err := New(server.URL, "", "en", time.Second).Image(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, url, bg.Path)
	assert.Equal(t, geometry.NewSize(64, 48), bg.Geometry())
}

func TestImage_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := New(server.URL, "", "en", time.Second).Image(context.Background(), server.URL+"/missing.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadStatus))
}
