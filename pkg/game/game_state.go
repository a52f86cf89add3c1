package game

// GameState 存储全局游戏状态
// 这是一个单例，用于管理跨场景和跨系统的全局状态数据
type GameState struct {
	Score        int // 本局累计得分
	LinesCleared int // 本局累计消除的整行数
	CurrentLevel int // 当前关卡编号，从1开始
}

// 全局单例实例（这是架构规范允许的唯一全局变量）
var globalGameState *GameState

// GetGameState 返回全局 GameState 单例
// 使用延迟初始化模式，确保整个游戏生命周期只有一个实例
func GetGameState() *GameState {
	if globalGameState == nil {
		globalGameState = &GameState{
			CurrentLevel: 1,
		}
	}
	return globalGameState
}

// AddScore 累加得分
// 负数被忽略，得分只增不减
func (gs *GameState) AddScore(points int) {
	if points <= 0 {
		return
	}
	gs.Score += points
}

// AddLinesCleared 累加整行消除数
func (gs *GameState) AddLinesCleared(lines int) {
	if lines <= 0 {
		return
	}
	gs.LinesCleared += lines
}

// ResetRun 重置单局状态，保留关卡编号
// 在重新开始当前关卡时调用
func (gs *GameState) ResetRun() {
	gs.Score = 0
	gs.LinesCleared = 0
}

// AdvanceLevel 进入下一关并重置单局状态
func (gs *GameState) AdvanceLevel() {
	gs.CurrentLevel++
	gs.ResetRun()
}
