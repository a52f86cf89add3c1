// Package systems 实现游戏逻辑系统
// 每个系统持有 EntityManager 引用，在每tick的 Update 中遍历相关组件
package systems

import (
	"log"

	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/entities"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// CrateManagerSystem 箱子管理器
// 独占持有网格占用状态和活动箱子列表，负责箱子的生成、下落、落地、
// 堆叠、推动、重力级联、满行消除、三消和炸弹引爆
//
// 网格与活动列表的所有修改都只发生在单线程的每tick更新中，
// 其它系统通过只读查询访问（GetAllCrates 返回副本）
type CrateManagerSystem struct {
	entityManager *ecs.EntityManager
	gridEntity    ecs.EntityID

	// 活动箱子列表：所有未被回收的箱子（含下落/滑行/消除中的）
	crates []ecs.EntityID

	// 对象池：已回收箱子实体的空闲列表，避免每帧分配
	pool []ecs.EntityID

	// 爆炸事件编号，单调递增，用于玩家受击去重
	explosionCounter int
}

// NewCrateManagerSystem 创建箱子管理器
// 自动创建网格实体并持有其ID
func NewCrateManagerSystem(em *ecs.EntityManager) *CrateManagerSystem {
	return &CrateManagerSystem{
		entityManager: em,
		gridEntity:    entities.NewCrateGridEntity(em),
		crates:        make([]ecs.EntityID, 0, 64),
		pool:          make([]ecs.EntityID, 0, config.CratePoolCap),
	}
}

// grid 返回网格组件
func (s *CrateManagerSystem) grid() *components.CrateGridComponent {
	g, _ := ecs.GetComponent[*components.CrateGridComponent](s.entityManager, s.gridEntity)
	return g
}

// crateAt 获取箱子的三个核心组件，任一缺失返回 false
func (s *CrateManagerSystem) crateComps(id ecs.EntityID) (*components.CrateComponent, *components.PositionComponent, *components.VelocityComponent, bool) {
	crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
	if !ok {
		return nil, nil, nil, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return nil, nil, nil, false
	}
	vel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)
	if !ok {
		return nil, nil, nil, false
	}
	return crate, pos, vel, true
}

// SpawnCrate 在指定列顶部生成一个箱子并开始下落
// 参数:
//   - col: 目标列（0-based）
//   - crateType: 箱子类型
//   - color: 颜色（仅 Regular 有效）
//   - fallSpeed: 下落速度（像素/秒），由关卡参数决定
//
// 返回: 实体ID和是否成功（列号越界时失败）
// 新箱子不在网格中，落地后才写入网格
func (s *CrateManagerSystem) SpawnCrate(col int, crateType types.CrateType, color types.CrateColor, fallSpeed float64) (ecs.EntityID, bool) {
	if !config.IsValidColumn(col) {
		return 0, false
	}

	id := s.acquireCrateEntity(crateType, color)
	crate, pos, vel, _ := s.crateComps(id)

	crate.GridCol = col
	pos.X = config.ColumnToWorldX(col)
	pos.Y = config.CrateSpawnY
	crate.StartFalling(fallSpeed)
	vel.VY = fallSpeed

	s.crates = append(s.crates, id)
	return id, true
}

// AddExistingCrate 接收外部（吊车）已构造好的箱子实体并让它开始下落
// 参数:
//   - id: 已挂载箱子组件的实体ID
//   - dropX, dropY: 投放点的世界坐标
//   - fallSpeed: 下落速度（像素/秒）
//
// 返回: 是否接收成功（组件缺失或投放点不在网格范围内时失败）
func (s *CrateManagerSystem) AddExistingCrate(id ecs.EntityID, dropX, dropY, fallSpeed float64) bool {
	crate, pos, vel, ok := s.crateComps(id)
	if !ok {
		return false
	}

	col := config.WorldXToColumn(dropX)
	if !config.IsValidColumn(col) {
		return false
	}

	crate.GridCol = col
	pos.X = config.ColumnToWorldX(col)
	pos.Y = dropY
	if !crate.StartFalling(fallSpeed) {
		return false
	}
	vel.VY = fallSpeed

	s.crates = append(s.crates, id)
	return true
}

// acquireCrateEntity 从对象池取出或新建一个箱子实体
func (s *CrateManagerSystem) acquireCrateEntity(crateType types.CrateType, color types.CrateColor) ecs.EntityID {
	if n := len(s.pool); n > 0 {
		id := s.pool[n-1]
		s.pool = s.pool[:n-1]
		crate, pos, vel, _ := s.crateComps(id)
		crate.Reset(crateType, color)
		*pos = components.PositionComponent{}
		*vel = components.VelocityComponent{}
		return id
	}
	return entities.NewCrateEntity(s.entityManager, crateType, color)
}

// releaseCrate 将箱子从活动列表移除并回收进对象池
// 池满时直接销毁实体
func (s *CrateManagerSystem) releaseCrate(id ecs.EntityID) {
	s.removeFromGrid(id)

	for i, cid := range s.crates {
		if cid == id {
			s.crates = append(s.crates[:i], s.crates[i+1:]...)
			break
		}
	}

	if len(s.pool) < config.CratePoolCap {
		s.pool = append(s.pool, id)
	} else {
		s.entityManager.DestroyEntity(id)
	}
}

// RemoveCrate 立即移除一个箱子（如特殊箱子被拾取时）
func (s *CrateManagerSystem) RemoveCrate(id ecs.EntityID) {
	s.releaseCrate(id)
}

// removeFromGrid 把箱子从网格格子中移除（如果占用着格子）
func (s *CrateManagerSystem) removeFromGrid(id ecs.EntityID) {
	crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
	if !ok {
		return
	}
	if crate.GridRow >= 0 && config.IsValidCell(crate.GridCol, crate.GridRow) {
		g := s.grid()
		if g.Cells[crate.GridRow][crate.GridCol] == id {
			g.Cells[crate.GridRow][crate.GridCol] = 0
		}
	}
	crate.GridRow = -1
}

// Reset 清空全部箱子、网格和对象池（重新开始游戏时调用）
func (s *CrateManagerSystem) Reset() {
	for _, id := range s.crates {
		s.entityManager.DestroyEntity(id)
	}
	for _, id := range s.pool {
		s.entityManager.DestroyEntity(id)
	}
	s.crates = s.crates[:0]
	s.pool = s.pool[:0]
	s.explosionCounter = 0

	g := s.grid()
	*g = components.CrateGridComponent{}
	log.Printf("[CrateManager] Reset complete")
}

// UpdateCrates 每tick推进所有活动箱子：下落积分、落地判定、
// 自动滑行、消除/爆炸动画和炸弹引信
// 这是tick内的第一步，随后才轮到玩家碰撞判定
func (s *CrateManagerSystem) UpdateCrates(dt float64) {
	// 遍历快照：落地/回收会修改活动列表
	snapshot := make([]ecs.EntityID, len(s.crates))
	copy(snapshot, s.crates)

	for _, id := range snapshot {
		crate, pos, vel, ok := s.crateComps(id)
		if !ok {
			continue
		}

		// 解除上一tick设置的推动冷却
		crate.TickPushCooldown()

		switch crate.State {
		case types.CrateStateFalling:
			pos.Y += vel.VY * dt
			res := s.checkCollisions(id)
			if res.landed {
				s.LandCrate(id, res.row)
			} else if res.clamped {
				pos.Y = res.clampY
			}

		case types.CrateStateSliding:
			if crate.AutoSliding {
				s.advanceAutoSlide(id, crate, pos, dt)
			}

		case types.CrateStateLanded:
			if crate.FuseActive {
				// 到期的引爆由 CheckAndProcessBombs 统一处理
				crate.AdvanceFuse(dt)
			}

		case types.CrateStateClearing, types.CrateStateExploding:
			if crate.AdvanceClearAnimation(dt) {
				s.releaseCrate(id)
			}
		}
	}
}

// collisionResult 下落碰撞判定的结果
// landed 为 true 时 row 有效；clamped 为 true 时箱子贴住下方障碍继续下落
type collisionResult struct {
	landed  bool
	row     int
	clamped bool
	clampY  float64
}

// checkCollisions 对下落中的箱子做落地判定
// 按固定优先级依次检查：地面接触 → 本列已落地堆叠的顶部 →
// 同列下方仍在下落的箱子 → 正滑入本列的滑行箱子
// 一tick内多个碰撞源可能同时成立，顺序即优先级
func (s *CrateManagerSystem) checkCollisions(id ecs.EntityID) collisionResult {
	crate, pos, _, ok := s.crateComps(id)
	if !ok {
		return collisionResult{}
	}

	col := crate.GridCol
	bottom := pos.Y + config.CellHeight/2

	// 1. 地面接触（本列为空时）
	height := s.GetColumnHeight(col)
	if height == 0 && bottom >= config.GroundY {
		return collisionResult{landed: true, row: 0}
	}

	// 2. 本列堆叠顶部接触
	if height > 0 {
		stackTopY := config.GroundY - float64(height)*config.CellHeight
		if bottom >= stackTopY {
			row, free := s.GetNextLandingRow(col)
			if !free {
				// 列已满：贴在堆叠顶上继续等待（top-out 由查询方处理）
				return collisionResult{clamped: true, clampY: stackTopY - config.CellHeight/2}
			}
			return collisionResult{landed: true, row: row}
		}
	}

	// 3. 同列下方仍在下落的箱子：贴住它的顶部一起下落，不落地
	if clampY, found := s.fallingCrateBelow(id, col, pos.Y); found && bottom >= clampY+config.CellHeight/2 {
		return collisionResult{clamped: true, clampY: clampY}
	}

	// 4. 正滑入本列的滑行箱子：落在它承诺的目标格子上方
	if row, found := s.slidingCrateEntering(id, col, pos.Y); found {
		return collisionResult{landed: true, row: row}
	}

	return collisionResult{}
}

// fallingCrateBelow 查找同列中位于本箱子正下方、距离最近的下落箱子
// 返回本箱子应贴住的中心Y坐标（对方顶部上方半格）
func (s *CrateManagerSystem) fallingCrateBelow(self ecs.EntityID, col int, y float64) (float64, bool) {
	bestY := 0.0
	found := false
	for _, id := range s.crates {
		if id == self {
			continue
		}
		other, otherPos, _, ok := s.crateComps(id)
		if !ok || other.State != types.CrateStateFalling || other.GridCol != col {
			continue
		}
		if otherPos.Y <= y {
			continue // 只关心下方的
		}
		if !found || otherPos.Y < bestY {
			bestY = otherPos.Y
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return bestY - config.CellHeight, true
}

// slidingCrateEntering 查找正滑入指定列且与本箱子垂直接触的滑行箱子
// 返回本箱子应落到的行（滑行箱子目标行的上一行）
func (s *CrateManagerSystem) slidingCrateEntering(self ecs.EntityID, col int, y float64) (int, bool) {
	bottom := y + config.CellHeight/2
	for _, id := range s.crates {
		if id == self {
			continue
		}
		other, otherPos, _, ok := s.crateComps(id)
		if !ok || other.State != types.CrateStateSliding {
			continue
		}
		destCol := config.WorldXToColumn(other.SlideTargetX)
		if destCol != col {
			continue
		}
		// 水平上必须已经滑进本列一半以上
		if absFloat(otherPos.X-config.ColumnToWorldX(col)) > config.CellWidth/2 {
			continue
		}
		otherTop := otherPos.Y - config.CellHeight/2
		if bottom < otherTop || y > otherPos.Y {
			continue
		}
		destRow, free := s.GetNextLandingRow(destCol)
		if !free {
			continue
		}
		row := destRow + 1
		if row >= config.GridRows {
			continue
		}
		return row, true
	}
	return 0, false
}

// LandCrate 将箱子落地到指定行：写入网格、吸附到格子中心并触发落地转换
// 目标格子被占用或坐标越界时落地失败
func (s *CrateManagerSystem) LandCrate(id ecs.EntityID, row int) bool {
	crate, pos, vel, ok := s.crateComps(id)
	if !ok {
		return false
	}
	col := crate.GridCol
	if !config.IsValidCell(col, row) {
		return false
	}
	g := s.grid()
	if g.Cells[row][col] != 0 {
		return false
	}
	if !crate.Land() {
		return false
	}

	// 网格写入与状态转换原子完成
	crate.GridRow = row
	g.Cells[row][col] = id
	pos.X = config.ColumnToWorldX(col)
	pos.Y = config.RowToWorldY(row)
	vel.VY = 0
	return true
}

// GetNextLandingRow 从底向上扫描指定列，返回最低的空闲行
// 第二个返回值为 false 表示该列已满
func (s *CrateManagerSystem) GetNextLandingRow(col int) (int, bool) {
	if !config.IsValidColumn(col) {
		return 0, false
	}
	g := s.grid()
	for row := 0; row < config.GridRows; row++ {
		if g.Cells[row][col] == 0 {
			return row, true
		}
	}
	return 0, false
}

// GetColumnHeight 返回指定列最高的已占用行号+1（空列返回0）
// 重力级联过程中列内可能存在空洞，高度以最高占用格为准
func (s *CrateManagerSystem) GetColumnHeight(col int) int {
	if !config.IsValidColumn(col) {
		return 0
	}
	g := s.grid()
	for row := config.GridRows - 1; row >= 0; row-- {
		if g.Cells[row][col] != 0 {
			return row + 1
		}
	}
	return 0
}

// GetMaxStackHeight 返回所有列中的最大堆叠高度
func (s *CrateManagerSystem) GetMaxStackHeight() int {
	max := 0
	for col := 0; col < config.GridColumns; col++ {
		if h := s.GetColumnHeight(col); h > max {
			max = h
		}
	}
	return max
}

// IsCellOccupied 检查格子是否被占用，越界格子视为未占用
func (s *CrateManagerSystem) IsCellOccupied(col, row int) bool {
	if !config.IsValidCell(col, row) {
		return false
	}
	return s.grid().Cells[row][col] != 0
}

// GetCrateAt 返回占用指定格子的箱子实体ID
// 格子为空或越界时返回 (0, false)
func (s *CrateManagerSystem) GetCrateAt(col, row int) (ecs.EntityID, bool) {
	if !config.IsValidCell(col, row) {
		return 0, false
	}
	id := s.grid().Cells[row][col]
	return id, id != 0
}

// HasReachedTop 检查最高一行是否有任何格子被占用（游戏结束信号）
// 核心模拟只暴露该信号，游戏结束的处理由所属场景决定
func (s *CrateManagerSystem) HasReachedTop() bool {
	g := s.grid()
	for col := 0; col < config.GridColumns; col++ {
		if g.Cells[config.GridRows-1][col] != 0 {
			return true
		}
	}
	return false
}

// GetAllCrates 返回活动箱子列表的副本
func (s *CrateManagerSystem) GetAllCrates() []ecs.EntityID {
	result := make([]ecs.EntityID, len(s.crates))
	copy(result, s.crates)
	return result
}

// GetLandedCrates 返回所有 Landed 状态的箱子
func (s *CrateManagerSystem) GetLandedCrates() []ecs.EntityID {
	return s.cratesInState(types.CrateStateLanded)
}

// GetFallingCrates 返回所有 Falling 状态的箱子
func (s *CrateManagerSystem) GetFallingCrates() []ecs.EntityID {
	return s.cratesInState(types.CrateStateFalling)
}

// GetSlidingCrates 返回所有 Sliding 状态的箱子
func (s *CrateManagerSystem) GetSlidingCrates() []ecs.EntityID {
	return s.cratesInState(types.CrateStateSliding)
}

func (s *CrateManagerSystem) cratesInState(state types.CrateState) []ecs.EntityID {
	result := make([]ecs.EntityID, 0)
	for _, id := range s.crates {
		if crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id); ok && crate.State == state {
			result = append(result, id)
		}
	}
	return result
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
