package config

// 计分与时序常量
// 本文件集中定义模拟核心用到的固定分值与固定时长，
// 它们不随关卡变化（随关卡变化的参数见 level_config.go）

// 三消计分：按同色连续串的长度计分
const (
	// MatchPointsRun3 长度为3的同色串得分
	MatchPointsRun3 = 50

	// MatchPointsRun4 长度为4的同色串得分
	MatchPointsRun4 = 100

	// MatchPointsRun5Plus 长度≥5的同色串得分
	MatchPointsRun5Plus = 500

	// MatchMinRunLength 构成三消的最小连续长度
	MatchMinRunLength = 3
)

// MatchRunPoints 返回指定长度同色串的得分
// 长度不足 MatchMinRunLength 时返回 0
func MatchRunPoints(length int) int {
	switch {
	case length < MatchMinRunLength:
		return 0
	case length == 3:
		return MatchPointsRun3
	case length == 4:
		return MatchPointsRun4
	default:
		return MatchPointsRun5Plus
	}
}

// 满行消除计分：按同时消除的行数计分
const (
	LineClearPoints1     = 100 // 消除1行
	LineClearPoints2     = 250 // 同时消除2行
	LineClearPoints3     = 500 // 同时消除3行
	LineClearPoints4Plus = 800 // 同时消除≥4行
)

// LineClearPoints 返回同时消除 lines 行的得分
func LineClearPoints(lines int) int {
	switch {
	case lines <= 0:
		return 0
	case lines == 1:
		return LineClearPoints1
	case lines == 2:
		return LineClearPoints2
	case lines == 3:
		return LineClearPoints3
	default:
		return LineClearPoints4Plus
	}
}

// 炸弹相关常量
const (
	// BombFuseDuration 炸弹引信时长（秒）
	BombFuseDuration = 5.0

	// BombCratePoints 每个被炸毁的非炸弹箱子的固定得分
	BombCratePoints = 10

	// BombFlashIntervalMax 引信刚点燃时的警告闪烁间隔（秒）
	BombFlashIntervalMax = 0.5

	// BombFlashIntervalMin 引信临近到期时的警告闪烁间隔（秒）
	BombFlashIntervalMin = 0.08
)

// 消除动画常量
const (
	// ClearAnimationDuration 消除/爆炸动画总时长（秒）
	ClearAnimationDuration = 0.5

	// ClearFlashPhaseRatio 动画前段闪烁阶段占总时长的比例
	ClearFlashPhaseRatio = 0.4

	// ClearFlashInterval 闪烁阶段的亮暗切换间隔（秒）
	ClearFlashInterval = 0.06
)

// 移动相关常量
const (
	// AutoSlideSpeed 自动滑行速度（像素/秒）
	AutoSlideSpeed = 240.0

	// BaseFallSpeed 基准下落速度（像素/秒），乘以关卡倍率得到实际速度
	BaseFallSpeed = 120.0

	// CrushOverlapRatio 砸落判定阈值：
	// 水平重叠宽度 ÷ min(玩家宽度, 箱子宽度) ≥ 此值才判定为被砸中
	CrushOverlapRatio = 0.5
)

// 特殊箱子效果常量
const (
	// ExtraPointsBonus 奖分箱子的拾取得分
	ExtraPointsBonus = 100

	// SuperJumpDuration 超级跳增强持续时间（秒）
	SuperJumpDuration = 6.0
)

// 玩家角色常量
const (
	// ActorDefaultPushStrength 默认推力（一次最多推动的堆叠高度）
	ActorDefaultPushStrength = 2

	// ActorDefaultLives 默认初始生命数
	ActorDefaultLives = 3

	// ActorMoveSpeed 水平移动速度（像素/秒）
	ActorMoveSpeed = 180.0

	// ActorJumpSpeed 起跳初速度（像素/秒，向上）
	ActorJumpSpeed = 330.0

	// ActorSuperJumpSpeed 超级跳起跳初速度（像素/秒，向上）
	ActorSuperJumpSpeed = 450.0

	// ActorGravity 角色重力加速度（像素/秒²）
	ActorGravity = 900.0

	// ActorWidth 角色碰撞盒宽度（像素）
	ActorWidth = 36.0

	// ActorHeight 角色碰撞盒高度（像素）
	ActorHeight = 56.0
)

// 对象池常量
const (
	// CratePoolCap 箱子对象池容量上限，超出的移除直接丢弃给GC
	CratePoolCap = 64
)
