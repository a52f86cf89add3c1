package systems

import (
	"sort"

	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// 推动/滑行协议
//
// 推动由碰撞判定系统发起，但状态转换全部在管理器内完成：
//  1. PushCrates 校验后把整摞箱子立刻移出原格子并转入 Sliding
//  2. 玩家持续推动时每tick调用 MoveSlidingCrate 推进位移，
//     越过目标列中心后重新写入网格并吸附
//  3. 玩家中途松手时箱子转为自动滑行，在 UpdateCrates 中以固定速度
//     滑向已承诺的目标列
//  4. 下落中的箱子可以被横向拨动（PushFallingCrate），全程不经过网格

// CanPushCrates 预校验一组箱子能否向指定方向推动
// 失败条件：方向非法、列表为空、目标列越界、目标格子被占用、
// 任一箱子处于不可推动状态（非 Landed 或推动冷却中）
func (s *CrateManagerSystem) CanPushCrates(ids []ecs.EntityID, dir int) bool {
	if (dir != -1 && dir != 1) || len(ids) == 0 {
		return false
	}
	g := s.grid()
	for _, id := range ids {
		crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
		if !ok || !crate.CanBePushed() {
			return false
		}
		destCol := crate.GridCol + dir
		if !config.IsValidCell(destCol, crate.GridRow) {
			return false
		}
		if g.Cells[crate.GridRow][destCol] != 0 {
			return false
		}
	}
	return true
}

// PushCrates 开始推动一组箱子（通常是一摞竖直堆叠）
// 每个箱子立刻从原格子移除（防止幻影再碰撞）并转入 Sliding，
// 目标X为相邻列的中心。处理顺序为离推动者由远到近（行号从高到低），
// 避免移动过程中互相穿透
//
// 返回 false 表示校验失败，所有箱子保持原状（不做部分推动）
func (s *CrateManagerSystem) PushCrates(ids []ecs.EntityID, dir int) bool {
	if !s.CanPushCrates(ids, dir) {
		return false
	}

	ordered := make([]ecs.EntityID, len(ids))
	copy(ordered, ids)
	sort.Slice(ordered, func(i, j int) bool {
		a, _ := ecs.GetComponent[*components.CrateComponent](s.entityManager, ordered[i])
		b, _ := ecs.GetComponent[*components.CrateComponent](s.entityManager, ordered[j])
		return a.GridRow > b.GridRow
	})

	g := s.grid()
	for _, id := range ordered {
		crate, _ := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
		destCol := crate.GridCol + dir

		g.Cells[crate.GridRow][crate.GridCol] = 0
		crate.GridRow = -1
		crate.StartBeingPushed(dir, config.ColumnToWorldX(destCol))
	}
	return true
}

// MoveSlidingCrate 玩家主动推动时每tick推进滑行箱子的位移
// 当箱子中心越过目标列中心时（以新旧X与目标列中心的比较为准，
// 与整摞同时移动保持一致），在目标列解析落地行、重新写入网格并吸附
//
// 返回 true 表示本次移动完成了网格写入（已吸附）
func (s *CrateManagerSystem) MoveSlidingCrate(id ecs.EntityID, deltaX float64) bool {
	crate, pos, _, ok := s.crateComps(id)
	if !ok || crate.State != types.CrateStateSliding {
		return false
	}

	oldX := pos.X
	newX := oldX + deltaX
	pos.X = newX

	if crossedColumnCenter(oldX, newX, crate.SlideTargetX, crate.SlideDir) {
		return s.finalizeSlide(id, crate, pos)
	}
	return false
}

// CompleteAutoSlide 自动滑行到达目标后完成网格写入
func (s *CrateManagerSystem) CompleteAutoSlide(id ecs.EntityID) bool {
	crate, pos, _, ok := s.crateComps(id)
	if !ok || crate.State != types.CrateStateSliding || !crate.AutoSliding {
		return false
	}
	if !crate.HasReachedSlideTarget(pos.X) {
		return false
	}
	return s.finalizeSlide(id, crate, pos)
}

// advanceAutoSlide 在 UpdateCrates 中以固定速度推进自动滑行
// 到达目标列中心时截断位移并完成网格写入
func (s *CrateManagerSystem) advanceAutoSlide(id ecs.EntityID, crate *components.CrateComponent, pos *components.PositionComponent, dt float64) {
	delta := config.AutoSlideSpeed * dt * float64(crate.SlideDir)
	newX := pos.X + delta

	if crate.HasReachedSlideTarget(newX) {
		// 到达目标：截断到目标中心并完成网格写入
		pos.X = crate.SlideTargetX
		s.finalizeSlide(id, crate, pos)
		return
	}

	pos.X = newX
}

// finalizeSlide 滑行结束：在目标列解析落地行、写回网格并吸附到格子中心
// 推动过程中目标列下方可能发生了结构变化（堆叠被消除），
// 落地行以当刻从底向上扫描的最低空位为准
func (s *CrateManagerSystem) finalizeSlide(id ecs.EntityID, crate *components.CrateComponent, pos *components.PositionComponent) bool {
	destCol := config.WorldXToColumn(crate.SlideTargetX)
	if !config.IsValidColumn(destCol) {
		// 不应该发生：目标列在推动开始时已校验
		crate.StopBeingPushed()
		return false
	}

	row, free := s.GetNextLandingRow(destCol)
	if !free {
		// 推动期间目标列被填满：放弃落位，在目标列恢复下落贴在堆叠顶上
		crate.StopBeingPushed()
		crate.GridCol = destCol
		crate.ResumeFalling()
		if _, _, vel, velOK := s.crateComps(id); velOK {
			vel.VY = crate.FallSpeed
		}
		return false
	}

	crate.StopBeingPushed()
	crate.GridCol = destCol
	crate.GridRow = row
	s.grid().Cells[row][destCol] = id
	pos.X = config.ColumnToWorldX(destCol)
	pos.Y = config.RowToWorldY(row)
	return true
}

// crossedColumnCenter 判断一次位移是否越过了目标列中心
func crossedColumnCenter(oldX, newX, targetX float64, dir int) bool {
	if dir > 0 {
		return oldX < targetX && newX >= targetX
	}
	return oldX > targetX && newX <= targetX
}

// PushFallingCrate 横向拨动一个下落中的箱子
// 目标列的堆叠顶部或其它下落箱子在碰撞高度上阻挡时拨动失败
// 下落箱子从不进入网格，拨动只修改其所在列和X坐标
func (s *CrateManagerSystem) PushFallingCrate(id ecs.EntityID, dir int) bool {
	if dir != -1 && dir != 1 {
		return false
	}
	crate, pos, _, ok := s.crateComps(id)
	if !ok || crate.State != types.CrateStateFalling {
		return false
	}

	destCol := crate.GridCol + dir
	if !config.IsValidColumn(destCol) {
		return false
	}

	// 目标列堆叠顶部阻挡：箱子底部已低于堆叠顶面则无法拨入
	height := s.GetColumnHeight(destCol)
	if height > 0 {
		stackTopY := config.GroundY - float64(height)*config.CellHeight
		if pos.Y+config.CellHeight/2 > stackTopY {
			return false
		}
	}

	// 目标列中处于碰撞高度的其它下落箱子阻挡
	for _, otherID := range s.crates {
		if otherID == id {
			continue
		}
		other, otherPos, _, ok := s.crateComps(otherID)
		if !ok || other.State != types.CrateStateFalling || other.GridCol != destCol {
			continue
		}
		if absFloat(otherPos.Y-pos.Y) < config.CellHeight {
			return false
		}
	}

	crate.GridCol = destCol
	pos.X = config.ColumnToWorldX(destCol)
	return true
}
