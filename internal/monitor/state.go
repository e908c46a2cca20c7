package monitor

// State 监测状态机的持久化记录，由状态机独占持有，每个周期最多变更一次
//
// 不变式：ConsecutiveAbnormalAfterYes 只在 UserPreviouslySaidSafe 为 true
// 且当前评分高于升级阈值时递增；用户重新确认安全或评分回落到阈值以下时
// 立即归零
type State struct {
	// AwaitingResponse 上一周期提示未获及时确认，下一周期无条件重新提示
	AwaitingResponse bool

	// UserPreviouslySaidSafe 自上次重置以来用户至少明确确认过一次安全，
	// 之后的异常周期改用连续计数/突变启发式而非立即提示
	UserPreviouslySaidSafe bool

	// ConsecutiveAbnormalAfterYes 确认安全后的连续异常周期计数
	ConsecutiveAbnormalAfterYes int

	// AlertSent 当前未解除的升级过程中已发出过报警
	// 报警仍可重复触发，此标记只影响后续提示的措辞
	AlertSent bool

	// LastAbnormality 上一周期的评分，仅用于突变幅度比较
	LastAbnormality int
}
