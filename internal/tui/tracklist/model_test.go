package tracklist

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-wavebar/internal/api"
)

func testTracks() []api.Song {
	d := 185.0
	return []api.Song{
		{ID: 1, Artist: "Test Artist 1", Title: "Test Track 1", Duration: &d, HasAudio: true},
		{ID: 2, Artist: "Test Artist 2", Title: "", HasAudio: true, HasArt: true},
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(testTracks())

	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.Len() != 2 {
		t.Fatalf("Expected 2 items, got %d", model.Len())
	}
}

func TestEnterSelectsTrack(t *testing.T) {
	model := NewModel(testTracks())
	model.SetSize(100, 20)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected command after Enter")
	}

	msg, ok := cmd().(TrackSelectedMsg)
	if !ok {
		t.Fatalf("Expected TrackSelectedMsg, got %T", msg)
	}
	if msg.Track.ID != 1 {
		t.Errorf("Expected track 1, got %d", msg.Track.ID)
	}
}

func TestEnterOnEmptyList(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected no command for empty list")
	}
}

func TestTracksLoaded(t *testing.T) {
	model := NewModel(nil)
	model.SetSize(100, 20)
	model.SetLoading(true)

	if !strings.Contains(model.View(), "Загрузка") {
		t.Error("Expected loading indicator")
	}

	model.Update(TracksLoadedMsg{Tracks: testTracks()})
	if model.Len() != 2 {
		t.Fatalf("Expected 2 items, got %d", model.Len())
	}

	model.Update(TracksLoadedMsg{Err: errors.New("connection refused")})
	if model.Len() != 2 {
		t.Error("Failed load should keep previous items")
	}
	if !strings.Contains(model.View(), "connection refused") {
		t.Error("Expected error in view")
	}
}

func TestLoadCmd(t *testing.T) {
	cmd := LoadCmd(func(ctx context.Context) ([]api.Song, error) {
		return testTracks(), nil
	})
	msg, ok := cmd().(TracksLoadedMsg)
	if !ok {
		t.Fatalf("Expected TracksLoadedMsg, got %T", msg)
	}
	if len(msg.Tracks) != 2 || msg.Err != nil {
		t.Errorf("Unexpected result: %+v", msg)
	}
}

func TestRenderRow(t *testing.T) {
	model := NewModel(testTracks())
	model.SetSize(120, 10)

	view := model.View()
	if !strings.Contains(view, "3:05") {
		t.Error("Expected formatted duration in view")
	}
	if !strings.Contains(view, "Untitled") {
		t.Error("Expected placeholder title for untitled song")
	}
}
