// Package track содержит логику управления треками
package track

import (
	"context"
	"fmt"

	"github.com/hazadus/go-wavebar/internal/api"
)

// maxTracks предел числа треков, загружаемых за один раз
const maxTracks = 1000

// SongSource источник песен, обычно api.Client
type SongSource interface {
	Songs(ctx context.Context, q string, offset, limit int) ([]api.Song, error)
	Song(ctx context.Context, id int) (*api.Song, error)
}

// Manager управляет треками в приложении
type Manager struct {
	src      SongSource
	pageSize int
	query    string
	tracks   []api.Song
}

// NewManager создает новый экземпляр Manager
func NewManager(src SongSource, pageSize int) *Manager {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Manager{
		src:      src,
		pageSize: pageSize,
	}
}

// Load загружает все страницы списка песен по запросу и оставляет только
// песни с готовым аудио
func (m *Manager) Load(ctx context.Context, query string) ([]api.Song, error) {
	var tracks []api.Song
	for offset := 0; offset < maxTracks; offset += m.pageSize {
		page, err := m.src.Songs(ctx, query, offset, m.pageSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки списка треков: %w", err)
		}
		for _, s := range page {
			if s.HasAudio {
				tracks = append(tracks, s)
			}
		}
		if len(page) < m.pageSize {
			break
		}
	}

	m.query = query
	m.tracks = tracks
	return tracks, nil
}

// Reload повторяет последнюю загрузку
func (m *Manager) Reload(ctx context.Context) ([]api.Song, error) {
	return m.Load(ctx, m.query)
}

// ListTracks возвращает список загруженных треков
func (m *Manager) ListTracks() []api.Song {
	return m.tracks
}

// Find ищет трек среди загруженных, а при отсутствии запрашивает сервер
func (m *Manager) Find(ctx context.Context, id int) (*api.Song, error) {
	for i := range m.tracks {
		if m.tracks[i].ID == id {
			return &m.tracks[i], nil
		}
	}
	song, err := m.src.Song(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("трек с ID %d не найден: %w", id, err)
	}
	return song, nil
}
