package types

// CrateState 定义箱子状态机的状态
//
// 状态转换：
//
//	Idle → Falling → Landed ⇄ Sliding
//	Landed/Falling → Clearing | Exploding → 移除
type CrateState int

const (
	// CrateStateIdle 初始状态，刚创建尚未开始下落
	CrateStateIdle CrateState = iota
	// CrateStateFalling 下落中，不占用网格格子
	CrateStateFalling
	// CrateStateLanded 已落地，占用网格中的一个格子
	CrateStateLanded
	// CrateStateSliding 被推动或自动滑行中，已从原格子移除
	CrateStateSliding
	// CrateStateClearing 消除动画播放中（满行消除或三消）
	CrateStateClearing
	// CrateStateExploding 爆炸动画播放中（炸弹波及）
	CrateStateExploding
)

// String 返回状态的字符串表示
func (s CrateState) String() string {
	switch s {
	case CrateStateIdle:
		return "Idle"
	case CrateStateFalling:
		return "Falling"
	case CrateStateLanded:
		return "Landed"
	case CrateStateSliding:
		return "Sliding"
	case CrateStateClearing:
		return "Clearing"
	case CrateStateExploding:
		return "Exploding"
	default:
		return "Unknown"
	}
}
