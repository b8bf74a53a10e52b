// Package api содержит клиент REST API сервера песен
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Song описание песни в ответе сервера
type Song struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Caption     string   `json:"caption"`
	Duration    *float64 `json:"duration"`
	BPM         *int     `json:"bpm"`
	KeyScale    string   `json:"key_scale"`
	HasAudio    bool     `json:"has_audio"`
	HasArt      bool     `json:"has_art"`
	HasExport   bool     `json:"has_export"`
	PersonaID   *int     `json:"persona_id"`
	PersonaName *string  `json:"persona_name"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
}

// Length возвращает длительность песни, если сервер ее знает
func (s Song) Length() time.Duration {
	if s.Duration == nil {
		return 0
	}
	return time.Duration(*s.Duration * float64(time.Second))
}

// Client клиент API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создает клиент для сервера по базовому адресу
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL возвращает базовый адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AudioURL возвращает адрес аудиопотока песни
func (c *Client) AudioURL(id int) string {
	return fmt.Sprintf("%s/api/songs/%d/audio", c.baseURL, id)
}

// ArtURL возвращает адрес обложки песни
func (c *Client) ArtURL(id int) string {
	return fmt.Sprintf("%s/api/songs/%d/art", c.baseURL, id)
}

// Songs возвращает страницу библиотеки, q фильтрует по названию и исполнителю
func (c *Client) Songs(ctx context.Context, q string, offset, limit int) ([]Song, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var songs []Song
	if err := c.get(ctx, "/api/songs?"+params.Encode(), &songs); err != nil {
		return nil, fmt.Errorf("ошибка получения списка песен: %w", err)
	}
	return songs, nil
}

// Song возвращает песню по ID
func (c *Client) Song(ctx context.Context, id int) (*Song, error) {
	var song Song
	if err := c.get(ctx, fmt.Sprintf("/api/songs/%d", id), &song); err != nil {
		return nil, fmt.Errorf("ошибка получения песни %d: %w", id, err)
	}
	return &song, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = resp.Status
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: text}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	return nil
}

// HTTPError ответ сервера с кодом ошибки
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("ошибка HTTP %d: %s", e.StatusCode, e.Message)
}
