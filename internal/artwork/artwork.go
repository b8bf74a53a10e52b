// Package artwork загружает обложку трека и рисует ее полублоками в терминале
package artwork

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Placeholder символ на месте отсутствующей обложки
const Placeholder = "♪"

// maxImageSize предел размера загружаемой обложки
const maxImageSize = 8 << 20

// Decode функция декодирования изображения
type Decode func(io.Reader) (image.Image, error)

// Loader загружает обложку и возвращает готовое представление
type Loader func(ctx context.Context, url string) (string, error)

// NewLoader создает загрузчик обложек размером cols×rows ячеек
func NewLoader(client *http.Client, cols, rows int) Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, url string) (string, error) {
		img, err := Fetch(ctx, client, url)
		if err != nil {
			return "", err
		}
		return Render(img, cols, rows), nil
	}
}

// Fetch загружает и декодирует изображение
func Fetch(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки обложки: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	decode, err := getDecoder(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	img, err := decode(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования обложки: %w", err)
	}
	return img, nil
}

func getDecoder(contentType string) (Decode, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	switch mediaType {
	case "image/png":
		return png.Decode, nil
	case "image/jpeg", "image/jpg":
		return jpeg.Decode, nil
	case "image/webp":
		return webp.Decode, nil
	default:
		return nil, fmt.Errorf("artwork: неподдерживаемый тип: %q", contentType)
	}
}

// Render масштабирует изображение до cols×rows ячеек. Каждая ячейка
// показывает два пикселя: верхний цветом символа ▀, нижний цветом фона.
func Render(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var sb strings.Builder
		for x := 0; x < cols; x++ {
			top := hex(dst.At(x, y*2))
			bottom := hex(dst.At(x, y*2+1))
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// RenderPlaceholder рисует заглушку по центру области cols×rows
func RenderPlaceholder(cols, rows int, accent string) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().
		Width(cols).
		Height(rows).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(lipgloss.Color(accent))
	return style.Render(Placeholder)
}

func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// Полностью прозрачный пиксель
		return "#000000"
	}
	return cf.Hex()
}
