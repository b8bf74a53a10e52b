package audio

import (
	"io"

	"github.com/dhowden/tag"
)

// Metadata теги потока
type Metadata struct {
	Artist string
	Title  string
	Album  string
}

// ReadMetadata читает теги из начала потока и возвращает ридер в начало.
// Отсутствие тегов не считается ошибкой, ошибка возвращается только
// если поток не удалось перемотать обратно.
func ReadMetadata(rs io.ReadSeeker) (Metadata, error) {
	var meta Metadata

	if m, err := tag.ReadFrom(rs); err == nil {
		meta = Metadata{
			Artist: m.Artist(),
			Title:  m.Title(),
			Album:  m.Album(),
		}
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return meta, err
	}
	return meta, nil
}
