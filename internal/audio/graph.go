package audio

import "time"

// DefaultBufferDuration длительность буфера динамика по умолчанию
const DefaultBufferDuration = 100 * time.Millisecond

// Graph аудиограф: источник элемента → анализатор → вывод.
// Строится один раз за время жизни процесса.
type Graph struct {
	Source   *Element
	Analyser *Analyser
	Output   Output
}

// BuildGraph инициализирует вывод и подключает к нему источник элемента
// через анализатор. bufferSize задается в отсчетах, 0 означает значение по умолчанию.
func BuildGraph(out Output, el *Element, bufferSize int) (*Graph, error) {
	if out == nil {
		return nil, &GraphError{Op: "output", Err: ErrNoOutput}
	}
	if bufferSize <= 0 {
		bufferSize = el.SampleRate().N(DefaultBufferDuration)
	}
	if err := out.Init(el.SampleRate(), bufferSize); err != nil {
		return nil, &GraphError{Op: "init", Err: err}
	}

	analyser := NewAnalyser(el.Source(), DefaultFFTSize)
	out.Play(analyser)

	return &Graph{
		Source:   el,
		Analyser: analyser,
		Output:   out,
	}, nil
}
