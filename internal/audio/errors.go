package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSource воспроизведение запрошено без источника
	ErrNoSource = errors.New("источник звука не задан")

	// ErrAborted загрузка прервана сменой источника
	ErrAborted = errors.New("загрузка прервана")

	// ErrClosed элемент уже закрыт
	ErrClosed = errors.New("аудиоэлемент закрыт")

	// ErrNoOutput аудиограф строится без устройства вывода
	ErrNoOutput = errors.New("устройство вывода не задано")
)

// GraphError ошибка построения или запуска аудиографа
type GraphError struct {
	Op  string // init, resume, suspend
	Err error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("аудиограф: ошибка %s: %v", e.Op, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// LoadError ошибка открытия или декодирования потока
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("ошибка загрузки %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
