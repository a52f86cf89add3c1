package systems

import (
	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// MatchDirection 同色串的方向
type MatchDirection int

const (
	// MatchHorizontal 横向（同一行内）
	MatchHorizontal MatchDirection = iota
	// MatchVertical 纵向（同一列内）
	MatchVertical
)

// Match 一条同色连续串：≥3个相邻的同色落地普通箱子
type Match struct {
	Direction MatchDirection // 串的方向
	Color     types.CrateColor
	Length    int            // 串的长度
	Points    int            // 按长度计分：3→50, 4→100, ≥5→500
	Crates    []ecs.EntityID // 串内箱子，按扫描顺序
}

// MatchResult 三消检测的完整结果
type MatchResult struct {
	Matches []Match
	// TotalPoints 所有串的得分之和
	// 同一箱子同时命中横竖两条串时，两条串各自计分（十字奖励）
	TotalPoints int
	// CratesToClear 待消除箱子的去重列表（命中两条串的箱子只出现一次）
	CratesToClear []ecs.EntityID
}

// DetectMatches 三消检测：对网格快照的纯函数扫描
// 逐行从左到右、逐列从下到上累积连续的同色串
// 只有 Landed 状态、未在消除/爆炸中的 Regular 箱子参与检测；
// 没有颜色的箱子永远不会命中
func DetectMatches(em *ecs.EntityManager, grid *components.CrateGridComponent) MatchResult {
	result := MatchResult{
		Matches:       make([]Match, 0),
		CratesToClear: make([]ecs.EntityID, 0),
	}
	seen := make(map[ecs.EntityID]bool)

	flush := func(dir MatchDirection, color types.CrateColor, run []ecs.EntityID) {
		if len(run) < config.MatchMinRunLength {
			return
		}
		match := Match{
			Direction: dir,
			Color:     color,
			Length:    len(run),
			Points:    config.MatchRunPoints(len(run)),
			Crates:    append([]ecs.EntityID(nil), run...),
		}
		result.Matches = append(result.Matches, match)
		result.TotalPoints += match.Points
		for _, id := range run {
			if !seen[id] {
				seen[id] = true
				result.CratesToClear = append(result.CratesToClear, id)
			}
		}
	}

	// 横向扫描：每行从左到右
	for row := 0; row < config.GridRows; row++ {
		run := make([]ecs.EntityID, 0, config.GridColumns)
		runColor := types.CrateColorNone
		for col := 0; col < config.GridColumns; col++ {
			id := grid.Cells[row][col]
			color, ok := matchableColor(em, id)
			if ok && color == runColor {
				run = append(run, id)
				continue
			}
			// 串中断：颜色变化、空格或不可匹配的箱子
			flush(MatchHorizontal, runColor, run)
			run = run[:0]
			runColor = types.CrateColorNone
			if ok {
				run = append(run, id)
				runColor = color
			}
		}
		flush(MatchHorizontal, runColor, run)
	}

	// 纵向扫描：每列从下到上
	for col := 0; col < config.GridColumns; col++ {
		run := make([]ecs.EntityID, 0, config.GridRows)
		runColor := types.CrateColorNone
		for row := 0; row < config.GridRows; row++ {
			id := grid.Cells[row][col]
			color, ok := matchableColor(em, id)
			if ok && color == runColor {
				run = append(run, id)
				continue
			}
			flush(MatchVertical, runColor, run)
			run = run[:0]
			runColor = types.CrateColorNone
			if ok {
				run = append(run, id)
				runColor = color
			}
		}
		flush(MatchVertical, runColor, run)
	}

	return result
}

// matchableColor 返回格子内箱子的可匹配颜色
// 仅 Landed、未在消除/爆炸中、携带颜色的 Regular 箱子可匹配
func matchableColor(em *ecs.EntityManager, id ecs.EntityID) (types.CrateColor, bool) {
	if id == 0 {
		return types.CrateColorNone, false
	}
	crate, ok := ecs.GetComponent[*components.CrateComponent](em, id)
	if !ok {
		return types.CrateColorNone, false
	}
	if crate.Type != types.CrateRegular {
		return types.CrateColorNone, false
	}
	if crate.State != types.CrateStateLanded || crate.IsClearingOrExploding() {
		return types.CrateColorNone, false
	}
	if crate.Color == types.CrateColorNone {
		return types.CrateColorNone, false
	}
	return crate.Color, true
}
