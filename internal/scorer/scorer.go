package scorer

// 异常评分规则：
// 只有在"无运动且心率超出正常区间 [50,80]"时，单个读数才计分。
// 运动状态下的心率异常视为运动/压力引起，不参与评分（避免运动误报）。
//
// 单读数计分表（从最严重到最轻，首个命中生效）：
//   HR > 110 → +25
//   HR > 100 → +20
//   HR > 90  → +15
//   HR > 80  → +10
//   HR < 45  → +20
//   HR < 50  → +10
//
// 总分为窗口内所有读数计分之和，截断到 [0,100]。

// MaxScore 评分上限
const MaxScore = 100

// Score 计算窗口的异常评分（0-100）
// 冷启动阶段（窗口未满）恒为 0
func Score(w *Window) int {
	if !w.IsFull() {
		return 0
	}

	score := 0
	for _, r := range w.readings {
		score += contribution(r.HeartRate, r.Motion)
	}

	if score > MaxScore {
		return MaxScore
	}
	return score
}

// contribution 单个读数的计分
func contribution(hr int, motion bool) int {
	if motion {
		return 0
	}

	switch {
	case hr > 110:
		return 25
	case hr > 100:
		return 20
	case hr > 90:
		return 15
	case hr > 80:
		return 10
	case hr < 45:
		return 20
	case hr < 50:
		return 10
	default:
		// 正常区间 [50,80]
		return 0
	}
}
