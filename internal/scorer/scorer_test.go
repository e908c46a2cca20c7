package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wisefido-guardian/internal/models"
)

func fillWindow(w *Window, r models.Reading, count int) {
	for i := 0; i < count; i++ {
		w.Push(r)
	}
}

func TestScore_ColdStart(t *testing.T) {
	w := NewWindow(5)

	// 窗口未满时评分恒为 0，即使读数严重异常
	for i := 0; i < 4; i++ {
		w.Push(models.Reading{HeartRate: 120, Motion: false})
		assert.Equal(t, 0, Score(w))
	}

	w.Push(models.Reading{HeartRate: 120, Motion: false})
	assert.True(t, w.IsFull())
	assert.Equal(t, 100, Score(w))
}

func TestScore_NormalBand(t *testing.T) {
	// 场景A：5 个正常读数 → 评分 0
	w := NewWindow(5)
	fillWindow(w, models.Reading{HeartRate: 75, Motion: false}, 5)

	assert.Equal(t, 0, Score(w))
}

func TestScore_MotionGating(t *testing.T) {
	// 有运动时无论心率如何都不计分
	w := NewWindow(5)
	fillWindow(w, models.Reading{HeartRate: 120, Motion: true}, 5)

	assert.Equal(t, 0, Score(w))
}

func TestScore_ClampedAt100(t *testing.T) {
	// 场景B：5 × 25 = 125，截断到 100
	w := NewWindow(5)
	fillWindow(w, models.Reading{HeartRate: 120, Motion: false}, 5)

	assert.Equal(t, 100, Score(w))
}

func TestScore_ContributionTiers(t *testing.T) {
	tests := []struct {
		name      string
		heartRate int
		expected  int
	}{
		{"above 110", 120, 25},
		{"above 100", 105, 20},
		{"above 90", 95, 15},
		{"above 80", 85, 10},
		{"below 45", 44, 20},
		{"below 50", 47, 10},
		{"lower band edge", 50, 0},
		{"upper band edge", 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 4 个正常读数 + 1 个目标读数，评分即为该读数的计分
			w := NewWindow(5)
			fillWindow(w, models.Reading{HeartRate: 70, Motion: false}, 4)
			w.Push(models.Reading{HeartRate: tt.heartRate, Motion: false})

			assert.Equal(t, tt.expected, Score(w))
		})
	}
}

func TestScore_Pure(t *testing.T) {
	w := NewWindow(5)
	fillWindow(w, models.Reading{HeartRate: 95, Motion: false}, 5)

	first := Score(w)
	second := Score(w)

	assert.Equal(t, first, second)
	assert.Len(t, w.Readings(), 5)
}

func TestWindow_FIFOEviction(t *testing.T) {
	w := NewWindow(5)
	for hr := 1; hr <= 6; hr++ {
		w.Push(models.Reading{HeartRate: hr})
	}

	readings := w.Readings()
	assert.Len(t, readings, 5)
	// 最旧的读数（hr=1）被淘汰，插入顺序保留
	assert.Equal(t, 2, readings[0].HeartRate)
	assert.Equal(t, 6, readings[4].HeartRate)
}

func TestWindow_ReadingsCopy(t *testing.T) {
	w := NewWindow(5)
	w.Push(models.Reading{HeartRate: 70})

	readings := w.Readings()
	readings[0].HeartRate = 999

	assert.Equal(t, 70, w.Readings()[0].HeartRate)
}
