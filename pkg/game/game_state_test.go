package game

import "testing"

// TestGetGameStateSingleton 测试单例延迟初始化
func TestGetGameStateSingleton(t *testing.T) {
	originalGameState := globalGameState
	defer func() { globalGameState = originalGameState }()
	globalGameState = nil

	gs1 := GetGameState()
	if gs1 == nil {
		t.Fatal("GetGameState() returned nil")
	}
	if gs1.CurrentLevel != 1 {
		t.Errorf("Initial CurrentLevel: got %d, want 1", gs1.CurrentLevel)
	}

	gs2 := GetGameState()
	if gs1 != gs2 {
		t.Error("GetGameState() should return the same instance")
	}
}

// TestAddScoreIgnoresNonPositive 测试得分只增不减
func TestAddScoreIgnoresNonPositive(t *testing.T) {
	gs := &GameState{CurrentLevel: 1}

	gs.AddScore(100)
	gs.AddScore(0)
	gs.AddScore(-50)
	if gs.Score != 100 {
		t.Errorf("Score: got %d, want 100", gs.Score)
	}
}

// TestAddLinesCleared 测试整行消除计数累加
func TestAddLinesCleared(t *testing.T) {
	gs := &GameState{CurrentLevel: 1}

	gs.AddLinesCleared(2)
	gs.AddLinesCleared(1)
	gs.AddLinesCleared(-1)
	if gs.LinesCleared != 3 {
		t.Errorf("LinesCleared: got %d, want 3", gs.LinesCleared)
	}
}

// TestResetRunKeepsLevel 测试重开本关只清空单局状态
func TestResetRunKeepsLevel(t *testing.T) {
	gs := &GameState{Score: 500, LinesCleared: 4, CurrentLevel: 3}

	gs.ResetRun()
	if gs.Score != 0 || gs.LinesCleared != 0 {
		t.Errorf("After ResetRun: score=%d lines=%d, want 0/0", gs.Score, gs.LinesCleared)
	}
	if gs.CurrentLevel != 3 {
		t.Errorf("ResetRun changed CurrentLevel: got %d, want 3", gs.CurrentLevel)
	}
}

// TestAdvanceLevel 测试进入下一关并重置单局状态
func TestAdvanceLevel(t *testing.T) {
	gs := &GameState{Score: 500, LinesCleared: 4, CurrentLevel: 2}

	gs.AdvanceLevel()
	if gs.CurrentLevel != 3 {
		t.Errorf("CurrentLevel after advance: got %d, want 3", gs.CurrentLevel)
	}
	if gs.Score != 0 || gs.LinesCleared != 0 {
		t.Errorf("Advance did not reset run state: score=%d lines=%d", gs.Score, gs.LinesCleared)
	}
}
