package systems

import (
	"math"

	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// CollisionResolverSystem 解决玩家角色与所有箱子之间的每帧重叠
// 在箱子物理更新之后、结构性结算（炸弹/重力/消除）之前运行
//
// 重叠沿穿透较小的轴解决（最小平移向量启发式）：
//   - 垂直、玩家在上：站上箱子顶
//   - 垂直、玩家在下、箱子下落中：水平重叠率≥0.5才判定砸中，
//     保护顺序为头盔 → 额外生命 → 游戏结束
//   - 水平：玩家主动挤向箱子时尝试推动，推动失败则贴停，
//     且同tick内不再尝试推动其它箱子（防止穿过被堵死的堆叠）
//
// 特殊箱子（非普通、非炸弹）任何方向接触都只触发拾取，不会伤害玩家
type CollisionResolverSystem struct {
	entityManager *ecs.EntityManager
	crateManager  *CrateManagerSystem
	actorEntity   ecs.EntityID

	// 玩家当前贴附跟随的自动滑行箱子
	// 自动滑行比玩家推动快，跟随靠每tick重新贴面而不是重叠解决
	gluedCrate ecs.EntityID
}

// ResolveResult 一次碰撞解决的结算结果，由所属场景轮询
type ResolveResult struct {
	PointsScored int               // 拾取特殊箱子获得的分数
	PickedUp     []types.CrateType // 本tick拾取的特殊箱子类型
	HelmetUsed   bool              // 是否消耗了头盔
	LivesLost    int               // 本tick损失的生命数
	GameOver     bool              // 保护资源耗尽，游戏结束
}

// NewCollisionResolverSystem 创建碰撞判定系统
// 参数:
//   - em: 实体管理器
//   - cm: 箱子管理器，推动与拾取通过它执行
//   - actorEntity: 玩家角色实体ID
func NewCollisionResolverSystem(em *ecs.EntityManager, cm *CrateManagerSystem, actorEntity ecs.EntityID) *CollisionResolverSystem {
	return &CollisionResolverSystem{
		entityManager: em,
		crateManager:  cm,
		actorEntity:   actorEntity,
	}
}

// Update 每tick解决一次玩家与箱子的碰撞
func (s *CollisionResolverSystem) Update(dt float64) ResolveResult {
	result := ResolveResult{}

	actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, s.actorEntity)
	if !ok {
		return result
	}
	apos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.actorEntity)
	if !ok {
		return result
	}
	avel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, s.actorEntity)
	if !ok {
		return result
	}
	abox, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, s.actorEntity)
	if !ok {
		return result
	}

	actor.PushBlockedThisTick = false
	pushedThisTick := make(map[ecs.EntityID]bool)

	// 先跟随贴附中的自动滑行箱子：箱子本tick已在物理更新中前进，
	// 贴面后玩家与它零重叠，主循环不会再处理这对组合
	s.followGluedCrate(actor, apos, abox)

	for _, id := range s.crateManager.GetAllCrates() {
		crate, cpos, _, compsOK := s.crateManager.crateComps(id)
		if !compsOK {
			continue
		}
		// 消除/爆炸中的箱子没有实体碰撞；爆炸冲击在单独的检查中处理
		if crate.IsClearingOrExploding() {
			continue
		}

		cbox, boxOK := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		if !boxOK {
			continue
		}

		overlapX, overlapY := boxOverlap(apos, abox, cpos, cbox)
		if overlapX <= 0 || overlapY <= 0 {
			continue
		}

		// 特殊箱子：任意接触立即拾取并移除
		if crate.Type.IsSpecial() {
			s.applyPickup(actor, crate, id, &result)
			continue
		}

		if overlapX < overlapY {
			s.resolveHorizontal(actor, apos, avel, abox, id, crate, cpos, cbox, overlapX, pushedThisTick)
		} else {
			s.resolveVertical(actor, apos, avel, abox, id, crate, cpos, cbox, overlapX, overlapY, &result)
		}
	}

	// 本tick没有被玩家主动推动的滑行箱子切换为自动滑行
	// 玩家此刻正贴在箱子后侧面上时进入贴附跟随
	for _, id := range s.crateManager.GetSlidingCrates() {
		if pushedThisTick[id] {
			continue
		}
		crate, cpos, _, ok := s.crateManager.crateComps(id)
		if !ok || crate.AutoSliding {
			continue
		}
		crate.StartAutoSlide()
		if cbox, boxOK := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id); boxOK &&
			actorAtTrailingFace(apos, abox, cpos, cbox, crate.SlideDir) {
			s.gluedCrate = id
		}
	}

	s.checkBlastImpact(actor, apos, abox, &result)
	return result
}

// resolveVertical 沿垂直轴解决重叠
func (s *CollisionResolverSystem) resolveVertical(
	actor *components.ActorComponent,
	apos *components.PositionComponent, avel *components.VelocityComponent, abox *components.CollisionComponent,
	id ecs.EntityID, crate *components.CrateComponent,
	cpos *components.PositionComponent, cbox *components.CollisionComponent,
	overlapX, overlapY float64, result *ResolveResult,
) {
	if apos.Y < cpos.Y {
		// 玩家在上方：站到箱子顶上
		if crate.State == types.CrateStateLanded || crate.State == types.CrateStateSliding {
			apos.Y = (cpos.Y - cbox.Height/2) - abox.Height/2
			if avel.VY > 0 {
				avel.VY = 0
			}
			actor.OnGround = true
		}
		return
	}

	// 玩家在下方
	switch crate.State {
	case types.CrateStateFalling:
		// 砸中判定：水平重叠率不足时只是被挤开，不造成伤害
		ratio := overlapX / math.Min(abox.Width, cbox.Width)
		if ratio < config.CrushOverlapRatio {
			shoveActorAside(apos, cpos, overlapX)
			return
		}
		survived := actorTakeHit(actor, true, result)
		if survived {
			// 保护生效：箱子在头盔/保护上撞碎，玩家被挤开避免重复受击
			crate.StartClearing()
			shoveActorAside(apos, cpos, overlapX)
		}

	case types.CrateStateLanded, types.CrateStateSliding:
		// 跳跃时顶到箱子底部：贴停在箱子下方
		apos.Y = (cpos.Y + cbox.Height/2) + abox.Height/2
		if avel.VY < 0 {
			avel.VY = 0
		}
	}
}

// resolveHorizontal 沿水平轴解决重叠
func (s *CollisionResolverSystem) resolveHorizontal(
	actor *components.ActorComponent,
	apos *components.PositionComponent, avel *components.VelocityComponent, abox *components.CollisionComponent,
	id ecs.EntityID, crate *components.CrateComponent,
	cpos *components.PositionComponent, cbox *components.CollisionComponent,
	overlapX float64, pushedThisTick map[ecs.EntityID]bool,
) {
	dir := 1
	if apos.X > cpos.X {
		dir = -1
	}
	movingInto := actor.MoveDir == dir

	switch crate.State {
	case types.CrateStateSliding:
		if crate.AutoSliding {
			// 自动滑行中的箱子：把玩家贴在近侧面上
			// 从后侧贴上时进入贴附跟随
			clampActorToFace(apos, abox, cpos, cbox, dir)
			if dir == crate.SlideDir {
				s.gluedCrate = id
			}
			return
		}
		if movingInto {
			// 玩家持续推动：整组滑行箱子按穿透量一起前进
			group := s.slidingGroup(cpos.X, crate.SlideDir)
			for _, gid := range group {
				pushedThisTick[gid] = true
				s.crateManager.MoveSlidingCrate(gid, overlapX*float64(dir))
			}
			clampActorToFace(apos, abox, cpos, cbox, dir)
		}

	case types.CrateStateLanded:
		if movingInto && !actor.PushBlockedThisTick {
			stack := s.buildPushStack(id, crate, apos, abox)
			if len(stack) > 0 && len(stack) <= actor.PushStrength && s.crateManager.PushCrates(stack, dir) {
				// 推动成功：立刻用穿透量推进，解决本帧的重叠
				for _, sid := range stack {
					pushedThisTick[sid] = true
					s.crateManager.MoveSlidingCrate(sid, overlapX*float64(dir))
				}
				return
			}
			// 堆叠太高或目标被占：贴停，且本tick不再尝试推动其它箱子
			actor.PushBlockedThisTick = true
			clampActorToFace(apos, abox, cpos, cbox, dir)
			avel.VX = 0
			return
		}
		// 不是主动挤向箱子：只贴停，不推动
		clampActorToFace(apos, abox, cpos, cbox, dir)

	case types.CrateStateFalling:
		if movingInto && s.crateManager.PushFallingCrate(id, dir) {
			return // 下落箱子被拨到相邻列
		}
		clampActorToFace(apos, abox, cpos, cbox, dir)
	}
}

// followGluedCrate 让贴附中的玩家跟随自动滑行箱子
// 箱子落位时按吸附后的最终位置再贴面一次，保证玩家停在目标列的侧面上
// 玩家反向移动、箱子换状态或垂直离开时解除贴附
func (s *CollisionResolverSystem) followGluedCrate(
	actor *components.ActorComponent,
	apos *components.PositionComponent, abox *components.CollisionComponent,
) {
	if s.gluedCrate == 0 {
		return
	}
	id := s.gluedCrate
	crate, cpos, _, ok := s.crateManager.crateComps(id)
	if !ok || crate.SlideDir == 0 || actor.MoveDir == -crate.SlideDir {
		s.gluedCrate = 0
		return
	}
	cbox, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
	if !ok {
		s.gluedCrate = 0
		return
	}
	if _, overlapY := boxOverlap(apos, abox, cpos, cbox); overlapY <= 0 {
		s.gluedCrate = 0
		return
	}

	switch crate.State {
	case types.CrateStateSliding:
		if !crate.AutoSliding {
			// 玩家重新接管推动，主循环按重叠解决
			s.gluedCrate = 0
			return
		}
		clampActorToFace(apos, abox, cpos, cbox, crate.SlideDir)
	case types.CrateStateLanded:
		clampActorToFace(apos, abox, cpos, cbox, crate.SlideDir)
		s.gluedCrate = 0
	default:
		s.gluedCrate = 0
	}
}

// actorAtTrailingFace 判断玩家是否正贴在滑行箱子的后侧面上
func actorAtTrailingFace(apos *components.PositionComponent, abox *components.CollisionComponent,
	cpos *components.PositionComponent, cbox *components.CollisionComponent, dir int) bool {
	if dir == 0 {
		return false
	}
	if _, overlapY := boxOverlap(apos, abox, cpos, cbox); overlapY <= 0 {
		return false
	}
	var gap float64
	if dir > 0 {
		gap = (cpos.X - cbox.Width/2) - (apos.X + abox.Width/2)
	} else {
		gap = (apos.X - abox.Width/2) - (cpos.X + cbox.Width/2)
	}
	return gap > -0.5 && gap < 0.5
}

// buildPushStack 构建玩家本次推动的竖直箱子组
// 从最初接触的箱子向下走，只要玩家包围盒仍与下方候选箱子垂直重叠
// 就继续向下；然后从最低接触箱子向上收集连续占用的整摞
func (s *CollisionResolverSystem) buildPushStack(
	touchedID ecs.EntityID, touched *components.CrateComponent,
	apos *components.PositionComponent, abox *components.CollisionComponent,
) []ecs.EntityID {
	col := touched.GridCol
	lowest := touched.GridRow
	if lowest < 0 {
		return nil
	}

	actorTop := apos.Y - abox.Height/2
	actorBottom := apos.Y + abox.Height/2

	for lowest > 0 {
		if _, ok := s.crateManager.GetCrateAt(col, lowest-1); !ok {
			break
		}
		cellTop := config.RowToWorldY(lowest-1) - config.CellHeight/2
		cellBottom := cellTop + config.CellHeight
		if actorBottom <= cellTop || actorTop >= cellBottom {
			break // 玩家不再与该候选箱子垂直重叠
		}
		lowest--
	}

	stack := make([]ecs.EntityID, 0, 4)
	for row := lowest; row < config.GridRows; row++ {
		id, ok := s.crateManager.GetCrateAt(col, row)
		if !ok {
			break
		}
		stack = append(stack, id)
	}
	return stack
}

// slidingGroup 收集与指定X位置竖直对齐、同方向、被玩家主动推动的滑行箱子
// 一摞被一起推动的箱子必须保持横向同步
func (s *CollisionResolverSystem) slidingGroup(x float64, dir int) []ecs.EntityID {
	group := make([]ecs.EntityID, 0, 4)
	type member struct {
		id ecs.EntityID
		y  float64
	}
	members := make([]member, 0, 4)
	for _, id := range s.crateManager.GetSlidingCrates() {
		crate, cpos, _, ok := s.crateManager.crateComps(id)
		if !ok || crate.AutoSliding || crate.SlideDir != dir {
			continue
		}
		if absFloat(cpos.X-x) > 1.0 {
			continue
		}
		members = append(members, member{id: id, y: cpos.Y})
	}
	// 从最下方的开始推进，保持堆叠顺序（落位时先解析低行）
	for len(members) > 0 {
		best := 0
		for i := 1; i < len(members); i++ {
			if members[i].y > members[best].y {
				best = i
			}
		}
		group = append(group, members[best].id)
		members = append(members[:best], members[best+1:]...)
	}
	return group
}

// checkBlastImpact 爆炸冲击检查：对每个爆炸中的箱子，
// 以其为中心的1格半径冲击盒与玩家求交
// 被波及时只有额外生命能抵挡（头盔无效），
// 同一次爆炸事件最多只消耗一条命
func (s *CollisionResolverSystem) checkBlastImpact(
	actor *components.ActorComponent,
	apos *components.PositionComponent, abox *components.CollisionComponent,
	result *ResolveResult,
) {
	for _, id := range s.crateManager.GetAllCrates() {
		crate, cpos, _, ok := s.crateManager.crateComps(id)
		if !ok || crate.State != types.CrateStateExploding {
			continue
		}
		if crate.ExplosionEventID == 0 || actor.HandledExplosions[crate.ExplosionEventID] {
			continue
		}

		blastBox := &components.CollisionComponent{
			Width:  config.CellWidth * 3,
			Height: config.CellHeight * 3,
		}
		ox, oy := boxOverlap(apos, abox, cpos, blastBox)
		if ox <= 0 || oy <= 0 {
			continue
		}

		if actor.HandledExplosions == nil {
			actor.HandledExplosions = make(map[int]bool)
		}
		actor.HandledExplosions[crate.ExplosionEventID] = true
		actorTakeHit(actor, false, result)
	}
}

// applyPickup 触发特殊箱子的一次性效果并立即移除箱子
func (s *CollisionResolverSystem) applyPickup(actor *components.ActorComponent, crate *components.CrateComponent, id ecs.EntityID, result *ResolveResult) {
	switch crate.Type {
	case types.CrateExtraPoints:
		result.PointsScored += config.ExtraPointsBonus
	case types.CrateSuperJump:
		actor.SuperJumpTimer = config.SuperJumpDuration
	case types.CrateHelmet:
		actor.HasHelmet = true
	case types.CrateExtraLife:
		actor.Lives++
	}
	result.PickedUp = append(result.PickedUp, crate.Type)
	s.crateManager.RemoveCrate(id)
}

// actorTakeHit 按保护顺序结算一次致命打击
// 返回 true 表示保护生效（玩家存活）
func actorTakeHit(actor *components.ActorComponent, allowHelmet bool, result *ResolveResult) bool {
	helmetBefore := actor.HasHelmet
	livesBefore := actor.Lives

	survived := actor.ConsumeProtection(allowHelmet)
	if allowHelmet && helmetBefore && !actor.HasHelmet {
		result.HelmetUsed = true
	}
	if actor.Lives < livesBefore {
		result.LivesLost += livesBefore - actor.Lives
	}
	if !survived {
		result.GameOver = true
	}
	return survived
}

// shoveActorAside 沿水平方向把玩家从箱子下方挤开
func shoveActorAside(apos, cpos *components.PositionComponent, overlapX float64) {
	if apos.X < cpos.X {
		apos.X -= overlapX
	} else {
		apos.X += overlapX
	}
}

// clampActorToFace 把玩家贴停在箱子的近侧面上
// dir 为玩家指向箱子的方向
func clampActorToFace(apos *components.PositionComponent, abox *components.CollisionComponent,
	cpos *components.PositionComponent, cbox *components.CollisionComponent, dir int) {
	faceX := cpos.X - float64(dir)*cbox.Width/2
	apos.X = faceX - float64(dir)*abox.Width/2
}

// boxOverlap 计算两个中心对齐包围盒的重叠量
// 返回的任一值≤0表示没有重叠
func boxOverlap(p1 *components.PositionComponent, b1 *components.CollisionComponent,
	p2 *components.PositionComponent, b2 *components.CollisionComponent) (float64, float64) {
	overlapX := math.Min(p1.X+b1.Width/2, p2.X+b2.Width/2) - math.Max(p1.X-b1.Width/2, p2.X-b2.Width/2)
	overlapY := math.Min(p1.Y+b1.Height/2, p2.Y+b2.Height/2) - math.Max(p1.Y-b1.Height/2, p2.Y-b2.Height/2)
	return overlapX, overlapY
}
