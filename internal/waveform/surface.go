package waveform

// Rect прямоугольник в логических единицах
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Surface область рисования. Bounds возвращает размер в логических единицах,
// Density число физических точек на логическую единицу.
type Surface interface {
	Bounds() Rect
	Density() float64
}

// Логических единиц в одной ячейке терминала. Ячейка примерно вдвое выше,
// чем шире, поэтому пропорции столбиков сохраняются.
const (
	UnitsPerColumn = 2
	UnitsPerRow    = 4
)

// CellSurface область рисования в ячейках терминала
type CellSurface struct {
	col, row   int
	cols, rows int
}

// NewCellSurface создает область с левым верхним углом в (col, row)
func NewCellSurface(col, row, cols, rows int) *CellSurface {
	s := &CellSurface{}
	s.Place(col, row, cols, rows)
	return s
}

// Place перемещает область. Отрицательные размеры считаются нулевыми.
func (s *CellSurface) Place(col, row, cols, rows int) {
	s.col, s.row = col, row
	s.cols, s.rows = max(cols, 0), max(rows, 0)
}

// Cells возвращает размер области в ячейках
func (s *CellSurface) Cells() (cols, rows int) {
	return s.cols, s.rows
}

// Origin возвращает левую верхнюю ячейку области
func (s *CellSurface) Origin() (col, row int) {
	return s.col, s.row
}

// Bounds реализует Surface
func (s *CellSurface) Bounds() Rect {
	return Rect{
		Left:   float64(s.col * UnitsPerColumn),
		Top:    float64(s.row * UnitsPerRow),
		Width:  float64(s.cols * UnitsPerColumn),
		Height: float64(s.rows * UnitsPerRow),
	}
}

// Density реализует Surface. Символы блоков делят строку на 8 уровней.
func (s *CellSurface) Density() float64 {
	return 1
}

// XAt возвращает логическую координату центра столбца терминала
func (s *CellSurface) XAt(col int) float64 {
	return (float64(col) + 0.5) * UnitsPerColumn
}

// Contains сообщает, попадает ли ячейка в область
func (s *CellSurface) Contains(col, row int) bool {
	return col >= s.col && col < s.col+s.cols && row >= s.row && row < s.row+s.rows
}
