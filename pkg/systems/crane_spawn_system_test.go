package systems

import (
	"math/rand"
	"testing"

	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

func newTestLevel(interval float64) *config.LevelConfig {
	return &config.LevelConfig{
		ID:                  "test",
		Name:                "test",
		FallSpeedMultiplier: 1.0,
		LineTarget:          10,
		DropInterval:        interval,
		CrateWeights:        map[string]int{"regular": 1},
		ColorWeights:        map[string]int{"red": 1},
	}
}

// TestCraneDropsImmediately 测试开局第一tick即投放，
// 箱子从投放高度沿列中心开始下落
func TestCraneDropsImmediately(t *testing.T) {
	em, cm := newTestCrateWorld()
	crane := NewCraneSpawnSystem(cm, newTestLevel(3.0), rand.New(rand.NewSource(1)))

	if !crane.Update(1.0 / 60.0) {
		t.Fatal("first tick did not drop a crate")
	}
	if got := len(cm.GetAllCrates()); got != 1 {
		t.Errorf("active crates after first drop: got %d, want 1", got)
	}

	id := cm.GetAllCrates()[0]
	crate := mustCrate(t, em, id)
	if crate.State != types.CrateStateFalling {
		t.Errorf("dropped crate state: got %v, want Falling", crate.State)
	}
	pos := mustPos(t, em, id)
	if pos.X != config.ColumnToWorldX(crate.GridCol) {
		t.Errorf("drop X not on column center: got %.1f, want %.1f", pos.X, config.ColumnToWorldX(crate.GridCol))
	}
	if pos.Y != config.CrateSpawnY {
		t.Errorf("drop Y: got %.1f, want %.1f", pos.Y, config.CrateSpawnY)
	}
}

// TestCraneDropCadence 测试投放按配置间隔进行
func TestCraneDropCadence(t *testing.T) {
	_, cm := newTestCrateWorld()
	crane := NewCraneSpawnSystem(cm, newTestLevel(1.0), rand.New(rand.NewSource(1)))

	// 0.25 在二进制下精确，计时不受浮点累积误差影响
	dt := 0.25
	drops := 0
	// 2秒 + 首次立即投放 = 3次
	for i := 0; i < 8; i++ {
		if crane.Update(dt) {
			drops++
		}
	}
	if drops != 3 {
		t.Errorf("drops over 2 seconds: got %d, want 3", drops)
	}
}

// TestCraneSingleWeightDeterministic 测试单一权重时类型与颜色固定
func TestCraneSingleWeightDeterministic(t *testing.T) {
	em, cm := newTestCrateWorld()
	level := newTestLevel(0.01)
	level.CrateWeights = map[string]int{"helmet": 1}
	crane := NewCraneSpawnSystem(cm, level, rand.New(rand.NewSource(42)))

	for i := 0; i < 5; i++ {
		if !crane.Update(0.02) {
			t.Fatalf("drop %d did not happen", i)
		}
	}
	for _, id := range cm.GetAllCrates() {
		crate := mustCrate(t, em, id)
		if crate.Type != types.CrateHelmet {
			t.Errorf("crate type: got %v, want helmet", crate.Type)
		}
		if crate.Color != types.CrateColorNone {
			t.Errorf("special crate color: got %v, want none", crate.Color)
		}
	}
}

// TestCraneRegularCrateGetsColor 测试普通箱子按颜色权重着色
func TestCraneRegularCrateGetsColor(t *testing.T) {
	em, cm := newTestCrateWorld()
	level := newTestLevel(0.01)
	level.ColorWeights = map[string]int{"blue": 1}
	crane := NewCraneSpawnSystem(cm, level, rand.New(rand.NewSource(7)))

	for i := 0; i < 5; i++ {
		crane.Update(0.02)
	}
	for _, id := range cm.GetAllCrates() {
		crate := mustCrate(t, em, id)
		if crate.Color != types.CrateColorBlue {
			t.Errorf("crate color: got %v, want blue", crate.Color)
		}
	}
}

// TestCraneUnknownWeightNamesFallBack 测试全部权重名无效时退化为默认值
func TestCraneUnknownWeightNamesFallBack(t *testing.T) {
	em, cm := newTestCrateWorld()
	level := newTestLevel(0.01)
	level.CrateWeights = map[string]int{"dragon": 5}
	level.ColorWeights = map[string]int{"pink": 5}
	crane := NewCraneSpawnSystem(cm, level, rand.New(rand.NewSource(3)))

	if !crane.Update(0.02) {
		t.Fatal("drop did not happen")
	}
	crate := mustCrate(t, em, cm.GetAllCrates()[0])
	if crate.Type != types.CrateRegular {
		t.Errorf("fallback type: got %v, want regular", crate.Type)
	}
	if crate.Color != types.CrateColorRed {
		t.Errorf("fallback color: got %v, want red", crate.Color)
	}
}

// TestCraneSkipsFullGrid 测试所有列满时不投放
func TestCraneSkipsFullGrid(t *testing.T) {
	_, cm := newTestCrateWorld()
	for col := 0; col < config.GridColumns; col++ {
		for row := 0; row < config.GridRows; row++ {
			placeLanded(t, cm, col, row, types.CrateRegular, types.CrateColorRed)
		}
	}
	crane := NewCraneSpawnSystem(cm, newTestLevel(1.0), rand.New(rand.NewSource(1)))

	if crane.Update(2.0) {
		t.Error("crane dropped a crate into a full grid")
	}
}

// TestCranePaused 测试暂停后不投放，恢复后照常投放
func TestCranePaused(t *testing.T) {
	_, cm := newTestCrateWorld()
	crane := NewCraneSpawnSystem(cm, newTestLevel(1.0), rand.New(rand.NewSource(1)))

	crane.SetPaused(true)
	if crane.Update(2.0) {
		t.Error("paused crane dropped a crate")
	}

	crane.SetPaused(false)
	if !crane.Update(1.0 / 60.0) {
		t.Error("resumed crane did not drop")
	}
}
