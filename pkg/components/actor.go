package components

// ActorComponent 玩家角色的游戏属性
// 角色自身的移动/跳跃物理由控制系统负责，
// 碰撞判定系统只读写这里的属性和角色的位置/速度组件
type ActorComponent struct {
	PushStrength int // 推力：一次最多能推动的竖直堆叠高度

	MoveDir  int  // 当前水平输入方向：-1 左 / 0 无 / +1 右
	OnGround bool // 是否站在地面或箱子顶上

	// 保护资源
	Lives     int  // 剩余生命数
	HasHelmet bool // 是否持有头盔（一次性砸落保护）

	// 超级跳增强剩余时间（秒），>0 时跳跃速度提升
	SuperJumpTimer float64

	// 本tick内推动是否已被阻挡
	// 阻挡后同一tick不再尝试推动其它箱子，防止穿过被堵死的堆叠
	PushBlockedThisTick bool

	// 已结算过冲击的爆炸事件编号集合，同一次爆炸最多扣一条命
	// 多个爆炸的动画窗口可能重叠，事件之间互不遮蔽
	HandledExplosions map[int]bool

	GameOver bool // 保护资源耗尽后被砸中/炸中
}

// ConsumeProtection 按顺序消耗一次保护资源：头盔 → 额外生命
// 返回 true 表示成功抵挡，false 表示保护耗尽（游戏结束）
//
// 参数 allowHelmet 为 false 时跳过头盔（爆炸冲击只有额外生命能抵挡）
func (a *ActorComponent) ConsumeProtection(allowHelmet bool) bool {
	if allowHelmet && a.HasHelmet {
		a.HasHelmet = false
		return true
	}
	if a.Lives > 1 {
		a.Lives--
		return true
	}
	a.Lives = 0
	a.GameOver = true
	return false
}
