package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep"
	"github.com/madelynnblue/go-dsp/fft"
	"github.com/madelynnblue/go-dsp/window"
)

// Параметры анализатора по умолчанию
const (
	DefaultFFTSize   = 128
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser узел аудиографа, который пропускает звук без изменений и
// предоставляет снимок спектра последних FFTSize отсчетов.
//
// Stream вызывается из горутины динамика, ByteFrequencyData из цикла событий.
type Analyser struct {
	s beep.Streamer

	mu   sync.Mutex
	ring []float64
	pos  int

	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64
	window    []float64
	smoothed  []float64
	scratch   []float64
}

// NewAnalyser оборачивает поток анализатором. fftSize должен быть степенью двойки.
func NewAnalyser(s beep.Streamer, fftSize int) *Analyser {
	if fftSize <= 0 || fftSize&(fftSize-1) != 0 {
		fftSize = DefaultFFTSize
	}
	return &Analyser{
		s:         s,
		ring:      make([]float64, fftSize),
		fftSize:   fftSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		window:    window.Blackman(fftSize),
		smoothed:  make([]float64, fftSize/2),
		scratch:   make([]float64, fftSize),
	}
}

// Stream пропускает звук дальше и копирует моно-микс в кольцевой буфер
func (a *Analyser) Stream(samples [][2]float64) (int, bool) {
	n, ok := a.s.Stream(samples)
	a.mu.Lock()
	for i := 0; i < n; i++ {
		a.ring[a.pos] = (samples[i][0] + samples[i][1]) / 2
		a.pos = (a.pos + 1) % a.fftSize
	}
	a.mu.Unlock()
	return n, ok
}

// Err возвращает ошибку исходного потока
func (a *Analyser) Err() error {
	return a.s.Err()
}

// FFTSize возвращает размер окна преобразования
func (a *Analyser) FFTSize() int {
	return a.fftSize
}

// FrequencyBinCount возвращает число частотных полос
func (a *Analyser) FrequencyBinCount() int {
	return a.fftSize / 2
}

// ByteFrequencyData заполняет dst уровнями полос в диапазоне 0..255.
// Уровни сглаживаются по времени и переводятся в децибелы в диапазоне [minDB, maxDB].
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	for i := 0; i < a.fftSize; i++ {
		a.scratch[i] = a.ring[(a.pos+i)%a.fftSize] * a.window[i]
	}
	a.mu.Unlock()

	spectrum := fft.FFTReal(a.scratch)

	bins := a.FrequencyBinCount()
	for k := 0; k < bins; k++ {
		mag := cmplx.Abs(spectrum[k]) / float64(a.fftSize)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k < len(dst) {
			dst[k] = a.toByte(a.smoothed[k])
		}
	}
}

func (a *Analyser) toByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - a.minDB) / (a.maxDB - a.minDB)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v)
	}
}
