package scorer

import (
	"wisefido-guardian/internal/models"
)

// DefaultWindowSize 滑动窗口默认容量（最近 5 个读数）
const DefaultWindowSize = 5

// Window 固定容量的读数滑动窗口（FIFO，最旧的先被淘汰）
type Window struct {
	readings []models.Reading
	capacity int
}

// NewWindow 创建滑动窗口
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &Window{
		readings: make([]models.Reading, 0, capacity),
		capacity: capacity,
	}
}

// Push 追加一个读数，超出容量时淘汰最旧的
func (w *Window) Push(r models.Reading) {
	w.readings = append(w.readings, r)
	if len(w.readings) > w.capacity {
		w.readings = w.readings[1:]
	}
}

// IsFull 窗口是否已收集满
func (w *Window) IsFull() bool {
	return len(w.readings) >= w.capacity
}

// Len 当前读数个数
func (w *Window) Len() int {
	return len(w.readings)
}

// Readings 返回当前读数序列（插入顺序，最新在最后）
func (w *Window) Readings() []models.Reading {
	out := make([]models.Reading, len(w.readings))
	copy(out, w.readings)
	return out
}
