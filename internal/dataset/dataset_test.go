package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/plotpilot/api/internal/config"
)

const (
	lotsJSON = `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-95.5,30.2]},"properties":{"OBJECTID":1,"LOTSTATUS":"Has Burial","Section":"A"}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-95.4,30.3]},"properties":{"OBJECTID":2,"Section":"A"}}
	]}`
	sectionsJSON = `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[-95.6,30.1],[-95.3,30.1],[-95.3,30.4],[-95.6,30.1]]]},"properties":{"Section":"A"}}
	]}`
	blocksJSON = `{"type":"FeatureCollection","features":[]}`
)

func staticFixture() *StaticSource {
	return NewStaticSource(map[string][]byte{
		"Lots.geojson":              []byte(lotsJSON),
		"Cemetery_Sections.geojson": []byte(sectionsJSON),
		"Cemetery_Blocks.geojson":   []byte(blocksJSON),
	})
}

func TestLoader_Load(t *testing.T) {
	ds, err := NewLoader(staticFixture(), DefaultFiles(), time.Second).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Plots.Features, 2)
	assert.Len(t, ds.Sections.Features, 1)
	assert.NotNil(t, ds.Blocks.Features)
	assert.Empty(t, ds.Blocks.Features)
	assert.Equal(t, "FeatureCollection", ds.Plots.Type)
	assert.Equal(t, float64(1), ds.Plots.Features[0].Properties["OBJECTID"])
}

func TestLoader_MissingCollection(t *testing.T) {
	src := staticFixture()
	files := DefaultFiles()
	files.Blocks = "Missing.geojson"

	ds, err := NewLoader(src, files, 0).Load(context.Background())
	assert.Nil(t, ds)

	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, CollectionBlocks, loadErr.Collection)
	assert.Equal(t, "Missing.geojson", loadErr.File)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_MalformedJSON(t *testing.T) {
	src := staticFixture()
	src.Put("Cemetery_Sections.geojson", []byte(`{"type":"FeatureCollection","features":[`))

	_, err := NewLoader(src, DefaultFiles(), 0).Load(context.Background())

	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, CollectionSections, loadErr.Collection)
	assert.Contains(t, err.Error(), "decode geojson")
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lots.geojson"), []byte(lotsJSON), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cemetery_Sections.geojson"), []byte(sectionsJSON), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cemetery_Blocks.geojson"), []byte(blocksJSON), 0o600))

	src, err := NewSource(context.Background(), config.DataConfig{Source: config.SourceFile, Dir: dir})
	require.NoError(t, err)

	ds, err := NewLoader(src, DefaultFiles(), time.Second).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Plots.Features, 2)

	// names cannot escape the directory
	rc, err := src.Open(context.Background(), "../Lots.geojson")
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/Lots.geojson":
			_, _ = w.Write([]byte(lotsJSON))
		case "/data/Cemetery_Sections.geojson":
			_, _ = w.Write([]byte(sectionsJSON))
		case "/data/Cemetery_Blocks.geojson":
			_, _ = w.Write([]byte(blocksJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL+"/data/", server.Client())
	ds, err := NewLoader(src, DefaultFiles(), time.Second).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Sections.Features, 1)

	_, err = src.Open(context.Background(), "Nope.geojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

// objectRoundTripper serves path-style GetObject requests from a map.
type objectRoundTripper struct {
	objects map[string]string
	seen    []string
}

func (rt *objectRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	key := strings.TrimPrefix(req.URL.Path, "/")
	rt.seen = append(rt.seen, key)
	body, ok := rt.objects[key]
	if req.Method != http.MethodGet || !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Body:       io.NopCloser(strings.NewReader(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)),
			Request:    req,
		}, nil
	}
	return &http.Response{
		StatusCode:    http.StatusOK,
		Header:        http.Header{"Content-Type": {"application/json"}},
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func TestS3Source(t *testing.T) {
	rt := &objectRoundTripper{objects: map[string]string{
		"plots/geo/Lots.geojson": lotsJSON,
	}}

	src, err := NewS3Source(context.Background(), S3Config{
		Bucket:    "plots",
		Endpoint:  "https://mock.s3.local",
		Prefix:    "geo",
		PathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.Credentials = credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")
	})
	require.NoError(t, err)
	assert.Equal(t, "geo/Lots.geojson", src.Key("Lots.geojson"))

	rc, err := src.Open(context.Background(), "Lots.geojson")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.JSONEq(t, lotsJSON, string(data))

	_, err = src.Open(context.Background(), "Cemetery_Blocks.geojson")
	assert.Error(t, err)
}

func TestNewS3Source_RequiresBucket(t *testing.T) {
	_, err := NewS3Source(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestNewSource_Unknown(t *testing.T) {
	_, err := NewSource(context.Background(), config.DataConfig{Source: "ftp"})
	assert.Error(t, err)
}
