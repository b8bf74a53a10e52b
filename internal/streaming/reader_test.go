package streaming

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// newRangeServer отдает данные с поддержкой Range через http.ServeContent
func newRangeServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "song.mp3", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newPlainServer игнорирует Range и всегда отдает файл целиком
func newPlainServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAndRead(t *testing.T) {
	data := testPayload(4096)
	srv := newRangeServer(t, data)

	r, err := Open(context.Background(), srv.URL, 1024)
	require.NoError(t, err)
	defer r.Close()

	size, ok := r.Size()
	assert.True(t, ok)
	assert.Equal(t, int64(len(data)), size)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSeekBackwardReopensWithRange(t *testing.T) {
	data := testPayload(2 * maxSkipForward)
	srv := newRangeServer(t, data)

	r, err := Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 100)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)

	pos, err := r.Seek(10, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos)

	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, data[10:110], buf)

	// Дальняя перемотка вперед тоже идет через Range
	pos, err = r.Seek(int64(len(data)-50), io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)-50), pos)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data[len(data)-50:], rest)
}

func TestSeekForwardDiscards(t *testing.T) {
	data := testPayload(8192)
	srv := newPlainServer(t, data)

	r, err := Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	defer r.Close()

	pos, err := r.Seek(1000, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), pos)

	b := make([]byte, 4)
	_, err = io.ReadFull(r, b)
	require.NoError(t, err)
	assert.Equal(t, data[1000:1004], b)
}

func TestSeekWithoutRangeSupport(t *testing.T) {
	data := testPayload(8192)
	srv := newPlainServer(t, data)

	r, err := Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	defer r.Close()

	_, err = io.ReadFull(r, make([]byte, 100))
	require.NoError(t, err)

	_, err = r.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, ErrNotSeekable)
}

func TestSeekEnd(t *testing.T) {
	data := testPayload(4096)
	srv := newRangeServer(t, data)

	r, err := Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	defer r.Close()

	pos, err := r.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), pos)

	n, err := r.Read(make([]byte, 10))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	pos, err = r.Seek(-4, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)-4), pos)
}

func TestOpenHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Open(context.Background(), srv.URL, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка HTTP")
}

func TestReadAfterClose(t *testing.T) {
	srv := newRangeServer(t, testPayload(16))

	r, err := Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestParseContentRangeTotal(t *testing.T) {
	tests := []struct {
		header string
		total  int64
		ok     bool
	}{
		{"bytes 0-99/1234", 1234, true},
		{"bytes 0-99/*", 0, false},
		{"", 0, false},
		{"bytes 0-99/", 0, false},
		{"bytes 0-99/abc", 0, false},
	}

	for _, test := range tests {
		total, ok := parseContentRangeTotal(test.header)
		assert.Equal(t, test.ok, ok, test.header)
		assert.Equal(t, test.total, total, test.header)
	}
}

func TestGetStreamStatus(t *testing.T) {
	assert.Equal(t, "Потоковое воспроизведение", GetStreamStatus(0))
	assert.Equal(t, "Буферизация...", GetStreamStatus(2))
	assert.Equal(t, "Медленная загрузка", GetStreamStatus(5))
	assert.Equal(t, "Возможная проблема с соединением", GetStreamStatus(9))
}
