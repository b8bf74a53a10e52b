// Package streaming содержит компоненты для потокового воспроизведения аудио
package streaming

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBufferSize размер буфера чтения по умолчанию
const DefaultBufferSize = 256 * 1024

// maxSkipForward предел, до которого перемотка вперед дочитывает текущий ответ
// вместо нового запроса с Range
const maxSkipForward = 512 * 1024

var (
	// ErrNotSeekable сервер не поддерживает запросы с Range
	ErrNotSeekable = errors.New("поток не поддерживает перемотку")

	// ErrClosed ридер уже закрыт
	ErrClosed = errors.New("поток закрыт")
)

// Reader представляет буферизованный поток с поддержкой перемотки через Range
type Reader struct {
	ctx        context.Context
	client     *http.Client
	url        string
	reader     *bufio.Reader
	resp       *http.Response
	bufferSize int

	pos       int64
	size      int64 // -1 если размер неизвестен
	rangeable bool
	closed    bool
}

// newClient создает HTTP клиент без общего таймаута для длительного потокового чтения
func newClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       300 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Open открывает поток по URL и читает его с начала
func Open(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	r := &Reader{
		ctx:        ctx,
		client:     newClient(),
		url:        url,
		bufferSize: bufferSize,
		size:       -1,
	}
	if err := r.open(0); err != nil {
		return nil, err
	}
	return r, nil
}

// open выполняет запрос начиная с указанного смещения
func (r *Reader) open(offset int64) error {
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Сжатие мешает смещениям в байтах
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	req.Header.Set("User-Agent", "go-wavebar/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		r.rangeable = true
		if total, ok := parseContentRangeTotal(resp.Header.Get("Content-Range")); ok {
			r.size = total
		}
	case http.StatusOK:
		// Сервер проигнорировал Range и отдает файл целиком
		if offset != 0 {
			resp.Body.Close()
			return ErrNotSeekable
		}
		r.rangeable = resp.Header.Get("Accept-Ranges") == "bytes"
		if resp.ContentLength >= 0 {
			r.size = resp.ContentLength
		}
	default:
		resp.Body.Close()
		return fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	if r.resp != nil {
		r.resp.Body.Close()
	}
	r.resp = resp
	r.pos = offset
	if r.reader == nil {
		r.reader = bufio.NewReaderSize(resp.Body, r.bufferSize)
	} else {
		r.reader.Reset(resp.Body)
	}
	return nil
}

// Read реализует интерфейс io.Reader для потокового чтения
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	n, err := r.reader.Read(p)
	r.pos += int64(n)
	return n, err
}

// Seek реализует io.Seeker. Короткая перемотка вперед дочитывает текущий
// ответ, остальные переоткрывают поток с заголовком Range.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.closed {
		return 0, ErrClosed
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.pos + offset
	case io.SeekEnd:
		if r.size < 0 {
			return 0, ErrNotSeekable
		}
		target = r.size + offset
	default:
		return 0, fmt.Errorf("неверное значение whence: %d", whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("отрицательная позиция: %d", target)
	}
	if r.size >= 0 && target > r.size {
		target = r.size
	}

	if target == r.pos {
		return target, nil
	}

	if target > r.pos && target-r.pos <= maxSkipForward {
		n, err := r.reader.Discard(int(target - r.pos))
		r.pos += int64(n)
		if err != nil && err != io.EOF {
			return r.pos, fmt.Errorf("ошибка перемотки: %w", err)
		}
		return r.pos, nil
	}

	if !r.rangeable {
		return r.pos, ErrNotSeekable
	}
	if r.size >= 0 && target == r.size {
		// Конец файла: запрос с Range за пределами вернул бы 416
		r.reader.Reset(eofReader{})
		r.pos = target
		return target, nil
	}
	if err := r.open(target); err != nil {
		return r.pos, err
	}
	return target, nil
}

// Size возвращает размер ресурса, если он известен
func (r *Reader) Size() (int64, bool) {
	return r.size, r.size >= 0
}

// Close закрывает соединение
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.resp.Body.Close()
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// parseContentRangeTotal разбирает заголовок вида "bytes 0-99/1234"
func parseContentRangeTotal(v string) (int64, bool) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 || i == len(v)-1 {
		return 0, false
	}
	total := v[i+1:]
	if total == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetStreamStatus возвращает текстовое описание состояния потока
func GetStreamStatus(stuckCount int) string {
	switch {
	case stuckCount == 0:
		return "Потоковое воспроизведение"
	case stuckCount <= 3:
		return "Буферизация..."
	case stuckCount <= 5:
		return "Медленная загрузка"
	default:
		return "Возможная проблема с соединением"
	}
}
