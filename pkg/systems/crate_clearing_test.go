package systems

import (
	"testing"

	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// fillRow 填满指定行（测试脚手架），颜色交替避免意外三消
func fillRow(t *testing.T, s *CrateManagerSystem, row int) {
	t.Helper()
	colors := []types.CrateColor{
		types.CrateColorRed, types.CrateColorBlue,
		types.CrateColorGreen, types.CrateColorYellow,
	}
	for col := 0; col < config.GridColumns; col++ {
		placeLanded(t, s, col, row, types.CrateRegular, colors[col%2*2+(row%2)])
	}
}

// TestSingleRowClear 测试单行消除：整行移出网格，得100分
func TestSingleRowClear(t *testing.T) {
	em, s := newTestCrateWorld()
	fillRow(t, s, 0)

	lines, points := s.ClearCompleteRows()
	if lines != 1 || points != 100 {
		t.Fatalf("clear result: lines=%d points=%d, want 1/100", lines, points)
	}

	for col := 0; col < config.GridColumns; col++ {
		if s.IsCellOccupied(col, 0) {
			t.Errorf("cell (%d,0) still occupied after row clear", col)
		}
	}
	// 行内箱子仍在活动列表中播放消除动画
	for _, id := range s.GetAllCrates() {
		if crate := mustCrate(t, em, id); crate.State != types.CrateStateClearing {
			t.Errorf("cleared crate state: got %v, want Clearing", crate.State)
		}
	}
}

// TestIncompleteRowNotCleared 测试10列中只占9列的行不消除
func TestIncompleteRowNotCleared(t *testing.T) {
	_, s := newTestCrateWorld()
	for col := 0; col < config.GridColumns-1; col++ {
		placeLanded(t, s, col, 0, types.CrateRegular, types.CrateColorRed)
	}

	lines, points := s.ClearCompleteRows()
	if lines != 0 || points != 0 {
		t.Errorf("incomplete row cleared: lines=%d points=%d", lines, points)
	}
	if len(s.GetCompleteRows()) != 0 {
		t.Errorf("GetCompleteRows returned %v for incomplete row", s.GetCompleteRows())
	}
}

// TestMultiRowClearScoring 测试同时消除多行的计分：2→250
func TestMultiRowClearScoring(t *testing.T) {
	_, s := newTestCrateWorld()
	fillRow(t, s, 0)
	fillRow(t, s, 1)

	lines, points := s.ClearCompleteRows()
	if lines != 2 || points != 250 {
		t.Errorf("double clear: lines=%d points=%d, want 2/250", lines, points)
	}
}

// TestLineClearPointsTable 测试行数计分表
func TestLineClearPointsTable(t *testing.T) {
	cases := []struct{ lines, want int }{
		{0, 0}, {1, 100}, {2, 250}, {3, 500}, {4, 800}, {5, 800},
	}
	for _, c := range cases {
		if got := config.LineClearPoints(c.lines); got != c.want {
			t.Errorf("LineClearPoints(%d): got %d, want %d", c.lines, got, c.want)
		}
	}
}

// TestGravityReleasesUnsupported 测试重力级联：失去支撑的箱子恢复下落
func TestGravityReleasesUnsupported(t *testing.T) {
	em, s := newTestCrateWorld()
	// 行1有箱子、行0为空（结构变化后的悬空状态）
	id := placeLanded(t, s, 3, 1, types.CrateRegular, types.CrateColorRed)

	moved := s.ProcessGravity()
	if moved != 1 {
		t.Fatalf("gravity moved %d crates, want 1", moved)
	}
	crate := mustCrate(t, em, id)
	if crate.State != types.CrateStateFalling || crate.GridRow != -1 {
		t.Errorf("unsupported crate: state=%v row=%d", crate.State, crate.GridRow)
	}
	if s.IsCellOccupied(3, 1) {
		t.Error("grid cell still occupied after gravity release")
	}

	// 幂等：无结构变化时重复调用不移动任何箱子
	if again := s.ProcessGravity(); again != 0 {
		t.Errorf("second gravity pass moved %d crates, want 0", again)
	}
}

// TestGravityKeepsSupported 测试有支撑的堆叠不受重力级联影响
func TestGravityKeepsSupported(t *testing.T) {
	_, s := newTestCrateWorld()
	placeLanded(t, s, 2, 0, types.CrateRegular, types.CrateColorRed)
	placeLanded(t, s, 2, 1, types.CrateRegular, types.CrateColorBlue)

	if moved := s.ProcessGravity(); moved != 0 {
		t.Errorf("gravity moved %d supported crates", moved)
	}
}

// TestBombBlast 测试炸弹引爆3x3邻域
func TestBombBlast(t *testing.T) {
	em, s := newTestCrateWorld()

	// 炸弹在 (5,1)，邻域内3个普通箱子，邻域外1个
	bomb := placeLanded(t, s, 5, 1, types.CrateBomb, types.CrateColorNone)
	inBlast := []struct{ col, row int }{{4, 0}, {5, 0}, {6, 0}}
	for _, c := range inBlast {
		placeLanded(t, s, c.col, c.row, types.CrateRegular, types.CrateColorRed)
	}
	outside := placeLanded(t, s, 8, 0, types.CrateRegular, types.CrateColorBlue)

	// 引信燃尽
	bombCrate := mustCrate(t, em, bomb)
	bombCrate.FuseElapsed = config.BombFuseDuration

	exploded, points := s.CheckAndProcessBombs()

	if exploded != 4 {
		t.Errorf("exploded count: got %d, want 4 (bomb + 3 neighbors)", exploded)
	}
	// 只有非炸弹箱子计分
	if points != 3*config.BombCratePoints {
		t.Errorf("blast points: got %d, want %d", points, 3*config.BombCratePoints)
	}

	if bombCrate.State != types.CrateStateExploding {
		t.Errorf("bomb state: got %v, want Exploding", bombCrate.State)
	}
	for _, c := range inBlast {
		if s.IsCellOccupied(c.col, c.row) {
			t.Errorf("cell (%d,%d) still occupied after blast", c.col, c.row)
		}
	}
	if crate := mustCrate(t, em, outside); crate.State != types.CrateStateLanded {
		t.Errorf("crate outside blast radius affected: state=%v", crate.State)
	}
}

// TestBombNotDetonatedEarly 测试引信未燃尽的炸弹不引爆
func TestBombNotDetonatedEarly(t *testing.T) {
	em, s := newTestCrateWorld()
	bomb := placeLanded(t, s, 3, 0, types.CrateBomb, types.CrateColorNone)
	mustCrate(t, em, bomb).FuseElapsed = config.BombFuseDuration / 2

	if exploded, _ := s.CheckAndProcessBombs(); exploded != 0 {
		t.Errorf("bomb detonated with fuse half-burned: exploded=%d", exploded)
	}
}

// TestSimultaneousBombs 测试同tick到期的相邻炸弹同时引爆：
// 先被邻弹冲击波命中的炸弹仍以自己的格子为中心引爆，
// 只在其中一个爆炸范围内的箱子也会被炸毁
func TestSimultaneousBombs(t *testing.T) {
	em, s := newTestCrateWorld()
	bombA := placeLanded(t, s, 2, 0, types.CrateBomb, types.CrateColorNone)
	bombB := placeLanded(t, s, 3, 0, types.CrateBomb, types.CrateColorNone)
	// 只在 bombB 的3x3范围内
	victim := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)
	mustCrate(t, em, bombA).FuseElapsed = config.BombFuseDuration
	mustCrate(t, em, bombB).FuseElapsed = config.BombFuseDuration

	exploded, points := s.CheckAndProcessBombs()

	if exploded != 3 {
		t.Errorf("exploded count: got %d, want 3 (two bombs + victim)", exploded)
	}
	if points != config.BombCratePoints {
		t.Errorf("points: got %d, want %d (only the regular crate scores)", points, config.BombCratePoints)
	}

	for _, id := range []ecs.EntityID{bombA, bombB, victim} {
		if crate := mustCrate(t, em, id); crate.State != types.CrateStateExploding {
			t.Errorf("crate %d state: got %v, want Exploding", id, crate.State)
		}
	}
}

// TestProcessTickCascade 测试完整tick结算：炸弹引爆后上方箱子恢复下落
func TestProcessTickCascade(t *testing.T) {
	em, s := newTestCrateWorld()
	bomb := placeLanded(t, s, 4, 0, types.CrateBomb, types.CrateColorNone)
	above := placeLanded(t, s, 4, 2, types.CrateRegular, types.CrateColorRed)
	mustCrate(t, em, bomb).FuseElapsed = config.BombFuseDuration

	summary := s.ProcessTick()

	// 行2在3x3邻域外，箱子保留但失去支撑
	if summary.CratesExploded != 1 {
		t.Errorf("exploded: got %d, want 1 (bomb only)", summary.CratesExploded)
	}
	if crate := mustCrate(t, em, above); crate.State != types.CrateStateFalling {
		t.Errorf("crate above blast: state=%v, want Falling (gravity cascade)", crate.State)
	}
	if summary.ReachedTop {
		t.Error("ReachedTop reported for near-empty grid")
	}
}

// TestProcessTickReportsTopOut 测试顶满信号进入tick汇总
func TestProcessTickReportsTopOut(t *testing.T) {
	_, s := newTestCrateWorld()
	for row := 0; row < config.GridRows; row++ {
		placeLanded(t, s, 0, row, types.CrateRegular, types.CrateColorRed)
	}

	if summary := s.ProcessTick(); !summary.ReachedTop {
		t.Error("ProcessTick did not report top-out for a full column")
	}
}
