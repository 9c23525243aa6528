package resolver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/bstardust/mediapick/internal/tempfile"
	"github.com/bstardust/mediapick/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockContent is a mock implementation of content.Resolver
type MockContent struct {
	mock.Mock
}

func (m *MockContent) OpenStream(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockContent) Type(ctx context.Context, u *url.URL) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockContent) DisplayName(ctx context.Context, u *url.URL) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

// trackingReader records read sizes and whether it was closed
type trackingReader struct {
	r      io.Reader
	reads  []int
	closed bool
}

func (t *trackingReader) Read(p []byte) (int, error) {
	t.reads = append(t.reads, len(p))
	return t.r.Read(p)
}

func (t *trackingReader) Close() error {
	t.closed = true
	return nil
}

// failingCloseFile writes through to a real file but reports a close error
type failingCloseFile struct {
	*os.File
}

func (f failingCloseFile) Close() error {
	f.File.Close()
	return errors.New("device full")
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPathFromURI_ContentScheme(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	reg := tempfile.NewRegistry()
	r := New(mc, dir, reg)

	u := mustParse(t, "content://media/external/images/media/42")
	in := &trackingReader{r: strings.NewReader("png bytes")}
	mc.On("Type", ctx, u).Return("image/png", nil)
	mc.On("DisplayName", ctx, u).Return("sunset", nil)
	mc.On("OpenStream", ctx, u).Return(in, nil)

	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)

	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "sunset"+NameMarker), base)
	assert.Equal(t, ".png", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
	assert.True(t, in.closed)
	assert.Equal(t, 1, reg.Len())

	mc.AssertExpectations(t)
}

func TestPathFromURI_Fallbacks(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	r := New(mc, dir, tempfile.NewRegistry())

	u := mustParse(t, "content://media/external/images/media/1001")
	mc.On("Type", ctx, u).Return("", errors.New("provider gone"))
	mc.On("DisplayName", ctx, u).Return("", nil)
	mc.On("OpenStream", ctx, u).Return(io.NopCloser(strings.NewReader("x")), nil)

	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "1001"+NameMarker), base)
	assert.Equal(t, ".jpg", filepath.Ext(path))
}

func TestPathFromURI_UnknownMimeType(t *testing.T) {
	ctx := context.Background()
	mc := new(MockContent)
	r := New(mc, t.TempDir(), tempfile.NewRegistry())

	u := mustParse(t, "content://media/7")
	mc.On("Type", ctx, u).Return("application/x-unregistered", nil)
	mc.On("DisplayName", ctx, u).Return("", errors.New("no such column"))
	mc.On("OpenStream", ctx, u).Return(io.NopCloser(strings.NewReader("x")), nil)

	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)
	assert.Equal(t, ".jpg", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "7"+NameMarker))
}

func TestPathFromURI_FileScheme(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "clip.gif")
	require.NoError(t, os.WriteFile(src, []byte("GIF89a"), 0644))

	dir := t.TempDir()
	r := New(content.NewFileResolver(), dir, tempfile.NewRegistry())

	u := &url.URL{Scheme: content.SchemeFile, Path: filepath.ToSlash(src)}
	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)

	assert.Equal(t, ".gif", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "clip.gif"+NameMarker))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(data))
}

func TestPathFromURI_FileSchemeWithoutExtension(t *testing.T) {
	ctx := context.Background()
	mc := new(MockContent)
	r := New(mc, t.TempDir(), tempfile.NewRegistry())

	u := mustParse(t, "file:///storage/emulated/0/Download/scan")
	mc.On("OpenStream", ctx, u).Return(io.NopCloser(strings.NewReader("x")), nil)

	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)
	assert.Equal(t, ".jpg", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "scan"+NameMarker))

	// file references never query the metadata store
	mc.AssertNotCalled(t, "Type", mock.Anything, mock.Anything)
	mc.AssertNotCalled(t, "DisplayName", mock.Anything, mock.Anything)
}

func TestPathFromURI_OpenFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	reg := tempfile.NewRegistry()
	r := New(mc, dir, reg)

	u := mustParse(t, "content://media/9")
	mc.On("Type", ctx, u).Return("image/jpeg", nil)
	mc.On("DisplayName", ctx, u).Return("nine", nil)
	mc.On("OpenStream", ctx, u).Return(nil, content.ErrNotFound)

	path, ok := r.PathFromURI(ctx, u)
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Empty(t, listDir(t, dir))
	assert.Equal(t, 0, reg.Len())

	_, err := r.Materialize(ctx, u)
	assert.True(t, content.IsNotFoundError(err))
}

func TestPathFromURI_NilStream(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	r := New(mc, dir, tempfile.NewRegistry())

	u := mustParse(t, "content://media/10")
	mc.On("Type", ctx, u).Return("image/jpeg", nil)
	mc.On("DisplayName", ctx, u).Return("ten", nil)
	mc.On("OpenStream", ctx, u).Return(nil, nil)

	_, err := r.Materialize(ctx, u)
	assert.True(t, errors.Is(err, content.ErrNilStream))
	assert.Empty(t, listDir(t, dir))
}

func TestPathFromURI_CloseErrorIsFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	reg := tempfile.NewRegistry()
	r := New(mc, dir, reg)
	r.createTemp = func(dir, pattern string) (tempFile, error) {
		f, err := os.CreateTemp(dir, pattern)
		if err != nil {
			return nil, err
		}
		return failingCloseFile{File: f}, nil
	}

	u := mustParse(t, "content://media/11")
	in := &trackingReader{r: strings.NewReader("complete payload")}
	mc.On("Type", ctx, u).Return("image/jpeg", nil)
	mc.On("DisplayName", ctx, u).Return("eleven", nil)
	mc.On("OpenStream", ctx, u).Return(in, nil)

	path, ok := r.PathFromURI(ctx, u)
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.True(t, in.closed)
	assert.Empty(t, listDir(t, dir))
	assert.Equal(t, 0, reg.Len())
}

func TestPathFromURI_ReadErrorIsFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	r := New(mc, dir, tempfile.NewRegistry())

	u := mustParse(t, "content://media/12")
	broken := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("stream reset")))
	mc.On("Type", ctx, u).Return("image/jpeg", nil)
	mc.On("DisplayName", ctx, u).Return("twelve", nil)
	mc.On("OpenStream", ctx, u).Return(io.NopCloser(broken), nil)

	_, err := r.Materialize(ctx, u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream reset")
	assert.Empty(t, listDir(t, dir))
}

func TestPathFromURI_CopiesInFixedChunks(t *testing.T) {
	ctx := context.Background()
	mc := new(MockContent)
	r := New(mc, t.TempDir(), tempfile.NewRegistry())

	payload := make([]byte, 10*1024)
	rand.New(rand.NewSource(1)).Read(payload)

	u := mustParse(t, "content://media/13")
	in := &trackingReader{r: bytes.NewReader(payload)}
	mc.On("Type", ctx, u).Return("image/jpeg", nil)
	mc.On("DisplayName", ctx, u).Return("big", nil)
	mc.On("OpenStream", ctx, u).Return(in, nil)

	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	for _, n := range in.reads {
		assert.Equal(t, bufferSize, n)
	}
	// 4096 + 4096 + 2048, then EOF
	assert.GreaterOrEqual(t, len(in.reads), 3)
}

func TestPathFromURI_SanitizesDisplayName(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mc := new(MockContent)
	r := New(mc, dir, tempfile.NewRegistry())

	u := mustParse(t, "content://media/14")
	mc.On("Type", ctx, u).Return("image/png", nil)
	mc.On("DisplayName", ctx, u).Return("../../etc/passwd", nil)
	mc.On("OpenStream", ctx, u).Return(io.NopCloser(strings.NewReader("x")), nil)

	path, ok := r.PathFromURI(ctx, u)
	require.True(t, ok)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), ".._.._etc_passwd"+NameMarker))
}

func TestPathFromURI_NilLocator(t *testing.T) {
	r := New(new(MockContent), t.TempDir(), tempfile.NewRegistry())
	path, ok := r.PathFromURI(context.Background(), nil)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestNew_Defaults(t *testing.T) {
	r := New(new(MockContent), "", nil)
	assert.Equal(t, os.TempDir(), r.CacheDir())
	assert.Same(t, tempfile.Default, r.registry)
}
