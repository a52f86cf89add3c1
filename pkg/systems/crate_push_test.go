package systems

import (
	"testing"

	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// TestPushCratesStartsSlide 测试推动成功：箱子移出原格子并滑向相邻列中心
func TestPushCratesStartsSlide(t *testing.T) {
	em, s := newTestCrateWorld()
	id := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)

	if !s.PushCrates([]ecs.EntityID{id}, 1) {
		t.Fatal("PushCrates failed for a free destination")
	}

	crate := mustCrate(t, em, id)
	if crate.State != types.CrateStateSliding {
		t.Errorf("state: got %v, want Sliding", crate.State)
	}
	if crate.SlideTargetX != config.ColumnToWorldX(5) {
		t.Errorf("slide target: got %.1f, want %.1f", crate.SlideTargetX, config.ColumnToWorldX(5))
	}
	if s.IsCellOccupied(4, 0) {
		t.Error("origin cell still occupied while crate slides")
	}
}

// TestPushRejectedAtEdge 测试推向场地边界失败
func TestPushRejectedAtEdge(t *testing.T) {
	_, s := newTestCrateWorld()
	left := placeLanded(t, s, 0, 0, types.CrateRegular, types.CrateColorRed)
	right := placeLanded(t, s, config.GridColumns-1, 0, types.CrateRegular, types.CrateColorBlue)

	if s.PushCrates([]ecs.EntityID{left}, -1) {
		t.Error("push past the left edge succeeded")
	}
	if s.PushCrates([]ecs.EntityID{right}, 1) {
		t.Error("push past the right edge succeeded")
	}
	// 失败后箱子保持落地状态与原格子
	if !s.IsCellOccupied(0, 0) || !s.IsCellOccupied(config.GridColumns-1, 0) {
		t.Error("rejected push disturbed the grid")
	}
}

// TestPushRejectedWhenDestOccupied 测试目标格子被占时整组推动失败
func TestPushRejectedWhenDestOccupied(t *testing.T) {
	em, s := newTestCrateWorld()
	a := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)
	placeLanded(t, s, 5, 0, types.CrateRegular, types.CrateColorBlue)

	if s.PushCrates([]ecs.EntityID{a}, 1) {
		t.Error("push into occupied cell succeeded")
	}
	if mustCrate(t, em, a).State != types.CrateStateLanded {
		t.Error("rejected push changed crate state")
	}
}

// TestPushWholeStack 测试整摞推动：全部成功或全部不动
func TestPushWholeStack(t *testing.T) {
	em, s := newTestCrateWorld()
	bottom := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)
	top := placeLanded(t, s, 4, 1, types.CrateRegular, types.CrateColorBlue)
	// 上层目标格子被堵住
	placeLanded(t, s, 5, 1, types.CrateRegular, types.CrateColorGreen)

	if s.PushCrates([]ecs.EntityID{bottom, top}, 1) {
		t.Fatal("partial-blocked stack push succeeded")
	}
	if mustCrate(t, em, bottom).State != types.CrateStateLanded ||
		mustCrate(t, em, top).State != types.CrateStateLanded {
		t.Error("all-or-nothing violated: some crates left the grid")
	}
}

// TestPushCooldownBlocksImmediateRepush 测试落位后一tick内不能立即再推
func TestPushCooldownBlocksImmediateRepush(t *testing.T) {
	em, s := newTestCrateWorld()
	id := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)

	s.PushCrates([]ecs.EntityID{id}, 1)
	// 一次大位移直接越过目标列中心完成落位
	if !s.MoveSlidingCrate(id, config.CellWidth) {
		t.Fatal("slide did not finalize after crossing target center")
	}

	crate := mustCrate(t, em, id)
	if crate.State != types.CrateStateLanded || crate.GridCol != 5 {
		t.Fatalf("after slide: state=%v col=%d", crate.State, crate.GridCol)
	}
	if s.PushCrates([]ecs.EntityID{id}, 1) {
		t.Error("re-push succeeded during cooldown tick")
	}

	// 下一tick冷却解除
	s.UpdateCrates(1.0 / 60.0)
	if !s.PushCrates([]ecs.EntityID{id}, 1) {
		t.Error("push failed after cooldown expired")
	}
}

// TestAutoSlideCompletes 测试松手后自动滑行到目标列并落位
func TestAutoSlideCompletes(t *testing.T) {
	em, s := newTestCrateWorld()
	id := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)

	s.PushCrates([]ecs.EntityID{id}, 1)
	mustCrate(t, em, id).StartAutoSlide()

	dt := 1.0 / 60.0
	for i := 0; i < 120; i++ {
		s.UpdateCrates(dt)
		if mustCrate(t, em, id).State == types.CrateStateLanded {
			break
		}
	}

	crate := mustCrate(t, em, id)
	if crate.State != types.CrateStateLanded || crate.GridCol != 5 || crate.GridRow != 0 {
		t.Fatalf("auto slide result: state=%v cell=(%d,%d), want Landed at (5,0)",
			crate.State, crate.GridCol, crate.GridRow)
	}
	pos := mustPos(t, em, id)
	if pos.X != config.ColumnToWorldX(5) {
		t.Errorf("not snapped to column center: X=%.1f", pos.X)
	}
	if !s.IsCellOccupied(5, 0) {
		t.Error("destination cell not occupied after slide")
	}
}

// TestSlideIntoFilledColumnResumesFalling 测试滑行期间目标列被填满时放弃落位
func TestSlideIntoFilledColumnResumesFalling(t *testing.T) {
	em, s := newTestCrateWorld()
	id := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)

	s.PushCrates([]ecs.EntityID{id}, 1)

	// 推动开始后目标列被完全填满
	for row := 0; row < config.GridRows; row++ {
		placeLanded(t, s, 5, row, types.CrateRegular, types.CrateColorBlue)
	}

	s.MoveSlidingCrate(id, config.CellWidth)

	crate := mustCrate(t, em, id)
	if crate.State != types.CrateStateFalling {
		t.Errorf("state after slide into full column: got %v, want Falling", crate.State)
	}
	if crate.GridRow != -1 {
		t.Errorf("crate claims grid row %d while falling", crate.GridRow)
	}
	// 下落归属目标列：碰撞判定在列5进行，不会被吸附拉回列4
	if crate.GridCol != 5 {
		t.Errorf("falling column: got %d, want 5", crate.GridCol)
	}
	if pos := mustPos(t, em, id); pos.X != config.ColumnToWorldX(5) {
		t.Errorf("X after abandoned slide: got %.1f, want %.1f", pos.X, config.ColumnToWorldX(5))
	}

	// 后续物理更新贴在目标列堆叠顶上，横向位置保持不变
	s.UpdateCrates(1.0 / 60.0)
	if pos := mustPos(t, em, id); pos.X != config.ColumnToWorldX(5) {
		t.Errorf("X after physics tick: got %.1f, want %.1f", pos.X, config.ColumnToWorldX(5))
	}
	if crate.State != types.CrateStateFalling {
		t.Errorf("state after physics tick: got %v, want Falling", crate.State)
	}
}

// TestPushFallingCrate 测试横向拨动下落中的箱子
func TestPushFallingCrate(t *testing.T) {
	em, s := newTestCrateWorld()

	id, _ := s.SpawnCrate(4, types.CrateRegular, types.CrateColorRed, config.BaseFallSpeed)

	if !s.PushFallingCrate(id, 1) {
		t.Fatal("nudge of falling crate failed over empty column")
	}
	crate := mustCrate(t, em, id)
	if crate.GridCol != 5 {
		t.Errorf("column after nudge: got %d, want 5", crate.GridCol)
	}
	if pos := mustPos(t, em, id); pos.X != config.ColumnToWorldX(5) {
		t.Errorf("X after nudge: got %.1f, want %.1f", pos.X, config.ColumnToWorldX(5))
	}

	// 拨向边界外失败
	for i := 0; i < 10; i++ {
		s.PushFallingCrate(id, 1)
	}
	if c := mustCrate(t, em, id); !config.IsValidColumn(c.GridCol) {
		t.Errorf("falling crate nudged out of bounds to column %d", c.GridCol)
	}
}

// TestPushFallingCrateBlockedByStack 测试下方堆叠过高时无法拨入
func TestPushFallingCrateBlockedByStack(t *testing.T) {
	em, s := newTestCrateWorld()

	// 目标列堆到第6行，下落箱子已降到堆叠高度以下
	for row := 0; row < 6; row++ {
		placeLanded(t, s, 5, row, types.CrateRegular, types.CrateColorBlue)
	}
	id, _ := s.SpawnCrate(4, types.CrateRegular, types.CrateColorRed, config.BaseFallSpeed)
	mustPos(t, em, id).Y = config.RowToWorldY(3)

	if s.PushFallingCrate(id, 1) {
		t.Error("falling crate nudged into a taller stack")
	}
	if mustCrate(t, em, id).GridCol != 4 {
		t.Error("blocked nudge changed the crate's column")
	}
}

// TestCompleteAutoSlideBeforeTarget 测试未到目标列中心时不完成落位
func TestCompleteAutoSlideBeforeTarget(t *testing.T) {
	em, s := newTestCrateWorld()
	id := placeLanded(t, s, 4, 0, types.CrateRegular, types.CrateColorRed)

	s.PushCrates([]ecs.EntityID{id}, 1)
	crate := mustCrate(t, em, id)
	crate.StartAutoSlide()

	if s.CompleteAutoSlide(id) {
		t.Error("CompleteAutoSlide succeeded before reaching the target column")
	}
	if crate.State != types.CrateStateSliding {
		t.Errorf("state after premature completion attempt: %v", crate.State)
	}

	// 手动把箱子推进到目标列中心后可以完成
	mustPos(t, em, id).X = crate.SlideTargetX
	if !s.CompleteAutoSlide(id) {
		t.Fatal("CompleteAutoSlide failed at the target column center")
	}
	if crate.State != types.CrateStateLanded || crate.GridCol != 5 || crate.GridRow != 0 {
		t.Errorf("after completion: state=%v cell=(%d,%d), want Landed (5,0)",
			crate.State, crate.GridCol, crate.GridRow)
	}
}

// TestStateQueries 测试按状态查询的箱子列表
func TestStateQueries(t *testing.T) {
	_, s := newTestCrateWorld()
	placeLanded(t, s, 0, 0, types.CrateRegular, types.CrateColorRed)
	s.SpawnCrate(3, types.CrateRegular, types.CrateColorBlue, config.BaseFallSpeed)
	pushed := placeLanded(t, s, 7, 0, types.CrateRegular, types.CrateColorGreen)
	s.PushCrates([]ecs.EntityID{pushed}, -1)

	if got := len(s.GetLandedCrates()); got != 1 {
		t.Errorf("landed crates: got %d, want 1", got)
	}
	if got := len(s.GetFallingCrates()); got != 1 {
		t.Errorf("falling crates: got %d, want 1", got)
	}
	if got := len(s.GetSlidingCrates()); got != 1 {
		t.Errorf("sliding crates: got %d, want 1", got)
	}
	if got := len(s.GetAllCrates()); got != 3 {
		t.Errorf("all crates: got %d, want 3", got)
	}
}
