package components

import (
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// CrateComponent 箱子组件，承载箱子状态机的全部状态与转换逻辑
//
// 状态机：
//
//	Idle → Falling → Landed ⇄ Sliding
//	Landed/Falling → Clearing | Exploding → 移除（回收进对象池）
//
// 网格占用规则：只有 Landed 状态的箱子占用网格格子；
// 下落、滑行、消除、爆炸中的箱子只存在于管理器的活动列表中。
// 被推动的箱子在开始移动前就从原格子移除，越过目标列中心后才重新写入网格。
type CrateComponent struct {
	Type  types.CrateType  // 箱子类型
	Color types.CrateColor // 颜色，仅 Regular 类型有效，其余为 CrateColorNone
	State types.CrateState // 当前状态

	GridCol int // 所在列（0-based）
	GridRow int // 所在行（0为最底行，向上递增），未落地时为 -1

	FallSpeed float64 // 下落速度（像素/秒），由关卡参数决定

	// 推动/滑行状态
	SlideDir     int     // 滑行方向：-1 左，+1 右
	SlideTargetX float64 // 滑行目标X（目标列中心的世界坐标）
	AutoSliding  bool    // 是否处于自动滑行（玩家松开方向键后）
	PushCooldown bool    // 推动完成后的一tick内禁止再次被推动

	// 消除/爆炸动画状态
	ClearTimer float64 // 消除动画已播放时间（秒）
	BaseAlpha  float64 // 开始消除时的不透明度快照

	// 炸弹引信状态
	FuseActive  bool    // 引信是否已点燃（炸弹落地时自动点燃）
	FuseElapsed float64 // 引信已燃烧时间（秒）
	FlashOn     bool    // 警告闪烁当前是否点亮
	flashAccum  float64 // 闪烁切换累计器

	// 爆炸事件编号，玩家被同一次爆炸波及时最多只扣一条命
	ExplosionEventID int
}

// Reset 将组件恢复为可复用的初始状态（对象池回收/复用时调用）
func (c *CrateComponent) Reset(crateType types.CrateType, color types.CrateColor) {
	*c = CrateComponent{
		Type:    crateType,
		Color:   color,
		State:   types.CrateStateIdle,
		GridCol: 0,
		GridRow: -1,
	}
}

// StartFalling 开始下落
// 仅在落地前（Idle状态）有效
func (c *CrateComponent) StartFalling(fallSpeed float64) bool {
	if c.State != types.CrateStateIdle {
		return false
	}
	c.FallSpeed = fallSpeed
	c.State = types.CrateStateFalling
	c.GridRow = -1
	return true
}

// Land 落地，从 Falling 转换到 Landed
// 炸弹箱子落地时自动点燃引信
// 网格写入由管理器负责，此处只做状态转换
func (c *CrateComponent) Land() bool {
	if c.State != types.CrateStateFalling {
		return false
	}
	c.State = types.CrateStateLanded
	if c.Type == types.CrateBomb && !c.FuseActive {
		c.FuseActive = true
		c.FuseElapsed = 0
		c.flashAccum = 0
	}
	return true
}

// ResumeFalling 重力级联时失去支撑，从 Landed 恢复下落
// 管理器先把箱子移出网格再调用此方法
func (c *CrateComponent) ResumeFalling() bool {
	if c.State != types.CrateStateLanded {
		return false
	}
	c.State = types.CrateStateFalling
	c.GridRow = -1
	return true
}

// CanBePushed 判断箱子当前是否可以被推动
// 推动刚完成后的一tick内返回 false，防止方向键一直按住时
// 在三消检测来得及执行之前就立刻触发下一次推动
func (c *CrateComponent) CanBePushed() bool {
	return c.State == types.CrateStateLanded && !c.PushCooldown
}

// TickPushCooldown 每tick开始时由管理器调用一次，解除上一tick的推动冷却
func (c *CrateComponent) TickPushCooldown() {
	c.PushCooldown = false
}

// StartBeingPushed 开始被推动
// 参数:
//   - dir: 推动方向，-1 左 / +1 右
//   - targetX: 目标列中心的世界X坐标
func (c *CrateComponent) StartBeingPushed(dir int, targetX float64) bool {
	if !c.CanBePushed() {
		return false
	}
	c.State = types.CrateStateSliding
	c.SlideDir = dir
	c.SlideTargetX = targetX
	c.AutoSliding = false
	return true
}

// StartAutoSlide 玩家松开方向键后切换为自动滑行
// 箱子以固定滑行速度继续向已承诺的目标列移动
func (c *CrateComponent) StartAutoSlide() bool {
	if c.State != types.CrateStateSliding || c.AutoSliding {
		return false
	}
	c.AutoSliding = true
	return true
}

// HasReachedSlideTarget 判断箱子是否已到达滑行目标X
func (c *CrateComponent) HasReachedSlideTarget(x float64) bool {
	if c.State != types.CrateStateSliding {
		return false
	}
	if c.SlideDir > 0 {
		return x >= c.SlideTargetX
	}
	return x <= c.SlideTargetX
}

// StopBeingPushed 滑行结束，回到 Landed 并进入一tick的推动冷却
// 网格重新写入由管理器负责
func (c *CrateComponent) StopBeingPushed() bool {
	if c.State != types.CrateStateSliding {
		return false
	}
	c.State = types.CrateStateLanded
	c.AutoSliding = false
	c.PushCooldown = true
	return true
}

// StartClearing 开始播放消除动画（满行消除或三消命中）
// 对已在消除/爆炸中的箱子无效
func (c *CrateComponent) StartClearing() bool {
	if !c.canStartRemoval() {
		return false
	}
	c.State = types.CrateStateClearing
	c.beginRemovalAnimation()
	return true
}

// StartExploding 开始播放爆炸动画（被炸弹波及或炸弹自身引爆）
func (c *CrateComponent) StartExploding() bool {
	if !c.canStartRemoval() {
		return false
	}
	c.State = types.CrateStateExploding
	c.beginRemovalAnimation()
	return true
}

// canStartRemoval 消除/爆炸只能从 Landed、Falling 或 Sliding 状态进入
func (c *CrateComponent) canStartRemoval() bool {
	switch c.State {
	case types.CrateStateLanded, types.CrateStateFalling, types.CrateStateSliding:
		return true
	default:
		return false
	}
}

func (c *CrateComponent) beginRemovalAnimation() {
	c.ClearTimer = 0
	c.BaseAlpha = 1.0
	c.FuseActive = false
	c.AutoSliding = false
}

// IsClearingOrExploding 判断箱子是否正在播放消除或爆炸动画
func (c *CrateComponent) IsClearingOrExploding() bool {
	return c.State == types.CrateStateClearing || c.State == types.CrateStateExploding
}

// AdvanceClearAnimation 推进消除/爆炸动画
// 返回 true 表示动画播放完毕，箱子可以被移除
func (c *CrateComponent) AdvanceClearAnimation(dt float64) bool {
	if !c.IsClearingOrExploding() {
		return false
	}
	c.ClearTimer += dt
	return c.ClearTimer >= config.ClearAnimationDuration
}

// Alpha 返回当前渲染不透明度
// 消除动画前段为高频闪烁，后段淡出到 0
func (c *CrateComponent) Alpha() float64 {
	if !c.IsClearingOrExploding() {
		return 1.0
	}
	progress := c.ClearTimer / config.ClearAnimationDuration
	if progress >= 1.0 {
		return 0
	}
	if progress < config.ClearFlashPhaseRatio {
		// 闪烁阶段：按固定间隔在亮/暗之间切换
		phase := int(c.ClearTimer / config.ClearFlashInterval)
		if phase%2 == 0 {
			return c.BaseAlpha
		}
		return c.BaseAlpha * 0.35
	}
	// 淡出阶段：线性降到 0
	fade := (progress - config.ClearFlashPhaseRatio) / (1.0 - config.ClearFlashPhaseRatio)
	return c.BaseAlpha * (1.0 - fade)
}

// Scale 返回当前渲染缩放系数
// 消除过程中以缓动方式从 1.0 缩小到 0.2
func (c *CrateComponent) Scale() float64 {
	if !c.IsClearingOrExploding() {
		return 1.0
	}
	progress := c.ClearTimer / config.ClearAnimationDuration
	if progress >= 1.0 {
		progress = 1.0
	}
	// ease-in: 前期缩得慢，后期缩得快
	return 1.0 - 0.8*progress*progress
}

// AdvanceFuse 推进炸弹引信并更新警告闪烁
// 闪烁间隔随引信临近到期而缩短
// 返回 true 表示引信已到期，等待管理器统一引爆
func (c *CrateComponent) AdvanceFuse(dt float64) bool {
	if !c.FuseActive || c.State != types.CrateStateLanded {
		return false
	}
	c.FuseElapsed += dt

	progress := c.FuseElapsed / config.BombFuseDuration
	if progress > 1.0 {
		progress = 1.0
	}
	interval := config.BombFlashIntervalMax - (config.BombFlashIntervalMax-config.BombFlashIntervalMin)*progress

	c.flashAccum += dt
	if c.flashAccum >= interval {
		c.flashAccum = 0
		c.FlashOn = !c.FlashOn
	}

	return c.FuseExpired()
}

// FuseExpired 判断引信是否已燃尽
func (c *CrateComponent) FuseExpired() bool {
	return c.FuseActive && c.FuseElapsed >= config.BombFuseDuration
}
