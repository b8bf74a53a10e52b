package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/go-wavebar/internal/api"
	"github.com/hazadus/go-wavebar/internal/config"
	"github.com/hazadus/go-wavebar/internal/logger"
)

func ptr[T any](v T) *T { return &v }

// newTestServer отдает библиотеку из songs
func newTestServer(t *testing.T, songs []api.Song) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/songs" {
			if r.URL.Query().Get("offset") != "0" {
				_ = json.NewEncoder(w).Encode([]api.Song{})
				return
			}
			_ = json.NewEncoder(w).Encode(songs)
			return
		}
		for _, s := range songs {
			if r.URL.Path == "/api/songs/"+strconv.Itoa(s.ID) {
				_ = json.NewEncoder(w).Encode(s)
				return
			}
		}
		http.Error(w, "Song not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// createTestApplication создает приложение, настроенное на тестовый сервер
func createTestApplication(t *testing.T, serverURL string) *Application {
	t.Helper()
	cfg := &config.Config{
		ServerURL: serverURL,
		PageSize:  config.DefaultPageSize,
		Themes:    config.DefaultThemes(),
	}
	return NewApplication(cfg, logger.NewTestLogger())
}

func testSongs() []api.Song {
	return []api.Song{
		{ID: 1, Title: "Test Title", Artist: "Test Artist", Duration: ptr(185.0), BPM: ptr(120), HasAudio: true},
		{ID: 2, Title: "", Artist: "Draft", HasAudio: true},
		{ID: 3, Title: "Pending", HasAudio: false},
	}
}

// TestCmdList проверяет, что команда `list` выводит песни с аудио
func TestCmdList(t *testing.T) {
	srv := newTestServer(t, testSongs())
	app := createTestApplication(t, srv.URL)

	cmd := app.createListCommand(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	output := out.String()
	for _, expected := range []string{"📚 Найдено песен: 2", "Test Artist", "Test Title", "3:05", "120", "Untitled", "00:03:05"} {
		assert.Contains(t, output, expected)
	}
	assert.NotContains(t, output, "Pending")
}

// TestCmdListEmpty проверяет вывод для пустой библиотеки
func TestCmdListEmpty(t *testing.T) {
	srv := newTestServer(t, nil)
	app := createTestApplication(t, srv.URL)

	cmd := app.createListCommand(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Песен с аудио не найдено")
}

// TestCmdListServerError проверяет, что ошибка сервера возвращается из команды
func TestCmdListServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	app := createTestApplication(t, srv.URL)

	cmd := app.createListCommand(context.Background())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)

	var httpErr *api.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestFindSong(t *testing.T) {
	srv := newTestServer(t, testSongs())
	app := createTestApplication(t, srv.URL)
	ctx := context.Background()

	song, err := app.findSong(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Test Title", song.Title)

	_, err = app.findSong(ctx, "abc")
	assert.ErrorContains(t, err, "неверный ID песни")

	_, err = app.findSong(ctx, "3")
	assert.ErrorIs(t, err, errNoAudio)

	_, err = app.findSong(ctx, "99")
	var httpErr *api.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

// TestCmdPlayInvalidArgs проверяет обработку неверных аргументов команды play
func TestCmdPlayInvalidArgs(t *testing.T) {
	app := createTestApplication(t, "http://127.0.0.1:1")

	cmd := app.createPlayCommand(context.Background())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())

	cmd.SetArgs([]string{"not-a-number"})
	assert.ErrorContains(t, cmd.Execute(), "неверный ID песни")
}

func TestCmdVersion(t *testing.T) {
	app := createTestApplication(t, "http://127.0.0.1:1")

	cmd := app.createRootCommand(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(out.String(), "wavebar "))
}

func TestThemesFromConfig(t *testing.T) {
	app := createTestApplication(t, "http://127.0.0.1:1")
	app.Config.Theme = "mint"

	themes := app.themes()
	assert.Equal(t, "mint", themes.Theme().Name)
	assert.Equal(t, []string{"violet", "mint", "sunset"}, themes.Names())

	app.Config.Theme = "missing"
	assert.Equal(t, "violet", app.themes().Theme().Name)
}
