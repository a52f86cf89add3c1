package systems

import (
	"log"

	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// TickSummary 一个tick内结构性结算的汇总结果
// 核心模拟不触发任何回调，所属场景每tick轮询该结果并更新计分/进度
type TickSummary struct {
	BombPoints     int  // 炸弹炸毁箱子的得分
	CratesExploded int  // 本tick被炸毁的箱子数
	MatchPoints    int  // 三消得分（同一箱子横竖各计一次）
	MatchCount     int  // 发现的同色串数量
	LinePoints     int  // 满行消除得分
	LinesCleared   int  // 本tick消除的行数
	ReachedTop     bool // 顶行是否已被占用（游戏结束信号）
}

// Points 返回本tick的总得分
func (t TickSummary) Points() int {
	return t.BombPoints + t.MatchPoints + t.LinePoints
}

// ProcessTick 执行tick内的结构性结算，顺序固定不可调换：
// 炸弹引爆 → 重力 → 三消 → 满行消除 → 第二次重力 → top-out检查
// （重力产生的新同色串必须在下一次满行扫描之前被检测到）
func (s *CrateManagerSystem) ProcessTick() TickSummary {
	summary := TickSummary{}

	summary.CratesExploded, summary.BombPoints = s.CheckAndProcessBombs()
	s.ProcessGravity()

	matchResult := s.DetectAndClearMatches()
	summary.MatchPoints = matchResult.TotalPoints
	summary.MatchCount = len(matchResult.Matches)

	summary.LinesCleared, summary.LinePoints = s.ClearCompleteRows()
	s.ProcessGravity()

	summary.ReachedTop = s.HasReachedTop()
	return summary
}

// GetCompleteRows 返回所有被完全占满的行号（从低到高）
// 一行完整当且仅当该行所有列的格子都被占用
func (s *CrateManagerSystem) GetCompleteRows() []int {
	g := s.grid()
	rows := make([]int, 0)
	for row := 0; row < config.GridRows; row++ {
		complete := true
		for col := 0; col < config.GridColumns; col++ {
			if g.Cells[row][col] == 0 {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearCompleteRows 消除所有完整的行并按同时消除的行数计分
// 行内箱子从网格中立即移除（保留在活动列表中播放消除动画）
// 返回: 消除的行数和得分（1→100, 2→250, 3→500, ≥4→800）
func (s *CrateManagerSystem) ClearCompleteRows() (int, int) {
	completeRows := s.GetCompleteRows()
	if len(completeRows) == 0 {
		return 0, 0
	}

	g := s.grid()
	for _, row := range completeRows {
		for col := 0; col < config.GridColumns; col++ {
			id := g.Cells[row][col]
			if id == 0 {
				continue
			}
			g.Cells[row][col] = 0
			if crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id); ok {
				crate.GridRow = -1
				crate.StartClearing()
			}
		}
	}

	points := config.LineClearPoints(len(completeRows))
	log.Printf("[CrateManager] Cleared %d complete row(s) for %d points", len(completeRows), points)
	return len(completeRows), points
}

// DetectAndClearMatches 运行三消检测并消除命中的箱子
// 命中箱子立即从网格移除，消除动画独立于网格占用继续播放
func (s *CrateManagerSystem) DetectAndClearMatches() MatchResult {
	result := DetectMatches(s.entityManager, s.grid())
	if len(result.CratesToClear) == 0 {
		return result
	}

	g := s.grid()
	for _, id := range result.CratesToClear {
		crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if crate.GridRow >= 0 && config.IsValidCell(crate.GridCol, crate.GridRow) {
			g.Cells[crate.GridRow][crate.GridCol] = 0
		}
		crate.GridRow = -1
		crate.StartClearing()
	}

	log.Printf("[CrateManager] %d match(es) cleared %d crate(s) for %d points",
		len(result.Matches), len(result.CratesToClear), result.TotalPoints)
	return result
}

// CheckAndProcessBombs 引爆所有引信已燃尽的落地炸弹
// 每个炸弹引爆以自身格子为中心的3x3邻域：范围内所有未在消除/爆炸中的
// 箱子转入 Exploding、移出网格；非炸弹箱子每个固定得10分
// 炸弹自身一定被引爆一次（即使邻域扫描因故没有覆盖到它）
//
// 返回: 被炸毁的箱子总数和得分
func (s *CrateManagerSystem) CheckAndProcessBombs() (int, int) {
	// 先快照所有到期炸弹及其格子坐标：
	// 多个炸弹同tick到期时视为同时引爆，每个炸弹都以自己
	// 快照时的格子为中心引爆，即使它先被相邻炸弹的冲击波命中
	type expiredBomb struct {
		id       ecs.EntityID
		col, row int
	}
	expired := make([]expiredBomb, 0)
	for _, id := range s.crates {
		crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if crate.Type == types.CrateBomb && crate.State == types.CrateStateLanded && crate.FuseExpired() {
			expired = append(expired, expiredBomb{id: id, col: crate.GridCol, row: crate.GridRow})
		}
	}

	exploded := 0
	points := 0
	for _, eb := range expired {
		bomb, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, eb.id)
		if !ok {
			continue
		}

		s.explosionCounter++
		eventID := s.explosionCounter

		bombCol, bombRow := eb.col, eb.row
		g := s.grid()
		for row := bombRow - 1; row <= bombRow+1; row++ {
			for col := bombCol - 1; col <= bombCol+1; col++ {
				if !config.IsValidCell(col, row) {
					continue
				}
				id := g.Cells[row][col]
				if id == 0 {
					continue
				}
				crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
				if !ok || crate.IsClearingOrExploding() {
					continue
				}
				g.Cells[row][col] = 0
				crate.GridRow = -1
				crate.StartExploding()
				crate.ExplosionEventID = eventID
				exploded++
				if crate.Type != types.CrateBomb {
					points += config.BombCratePoints
				}
			}
		}

		// 炸弹自身兜底：邻域扫描正常会覆盖到它，这里保证它只被引爆一次
		if !bomb.IsClearingOrExploding() {
			if bomb.GridRow >= 0 && config.IsValidCell(bomb.GridCol, bomb.GridRow) {
				g.Cells[bomb.GridRow][bomb.GridCol] = 0
			}
			bomb.GridRow = -1
			bomb.StartExploding()
			bomb.ExplosionEventID = eventID
			exploded++
		}

		log.Printf("[CrateManager] Bomb at (%d,%d) detonated, event %d", bombCol, bombRow, eventID)
	}

	return exploded, points
}

// ProcessGravity 重力级联：自底向上逐列扫描一遍，
// 任何正下方格子为空的落地箱子被移出网格并恢复下落
// （不做瞬间下移，箱子在后续tick中自然重新落地）
//
// 每次结构性变化（满行消除、三消、炸弹引爆）之后都必须执行，
// 否则会出现悬空箱子。无结构变化时重复调用不产生任何移动
//
// 返回: 本次恢复下落的箱子数
func (s *CrateManagerSystem) ProcessGravity() int {
	g := s.grid()
	moved := 0
	for col := 0; col < config.GridColumns; col++ {
		for row := 1; row < config.GridRows; row++ {
			id := g.Cells[row][col]
			if id == 0 {
				continue
			}
			if g.Cells[row-1][col] != 0 {
				continue
			}
			crate, _, vel, ok := s.crateComps(id)
			if !ok {
				continue
			}
			g.Cells[row][col] = 0
			crate.ResumeFalling()
			vel.VY = crate.FallSpeed
			moved++
		}
	}
	return moved
}
