package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ProgressData 持久化的玩家进度
type ProgressData struct {
	HighScore    int `yaml:"highScore"`    // 历史最高分
	HighestLevel int `yaml:"highestLevel"` // 已通过的最高关卡编号
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "global"
)

// ProgressManager 进度管理器
// 负责最高分与最高关卡的加载、保存和内存管理
//
// 架构说明：
//   - 数据通过 gdata 持久化为 YAML（与项目其他配置文件保持一致）
//   - gdataManager 为 nil 时进入降级模式，进度只存在内存中
type ProgressManager struct {
	gdataManager *gdata.Manager
	data         *ProgressData
}

// NewProgressManager 创建进度管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *ProgressManager: 进度管理器实例
//   - error: 如果加载进度失败返回错误（不影响创建）
func NewProgressManager(gdataManager *gdata.Manager) (*ProgressManager, error) {
	pm := &ProgressManager{
		gdataManager: gdataManager,
		data:         &ProgressData{HighestLevel: 0},
	}

	if err := pm.Load(); err != nil {
		// 加载失败不是致命错误，使用空进度
		log.Printf("[ProgressManager] Warning: Failed to load progress: %v (starting fresh)", err)
	}

	return pm, nil
}

// Load 从 gdata 加载进度
// 如果 gdataManager 为 nil 或文件不存在，使用空进度
func (pm *ProgressManager) Load() error {
	if pm.gdataManager == nil {
		return nil
	}
	if !pm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded ProgressData
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	pm.data = &loaded
	log.Printf("[ProgressManager] Progress loaded: high score %d, highest level %d",
		loaded.HighScore, loaded.HighestLevel)
	return nil
}

// Save 把当前进度写入 gdata
// 降级模式下直接返回 nil
func (pm *ProgressManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(pm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := pm.gdataManager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// RecordScore 上报一局的最终得分
// 刷新最高分时立即持久化，返回 true 表示创造了新纪录
func (pm *ProgressManager) RecordScore(score int) bool {
	if score <= pm.data.HighScore {
		return false
	}
	pm.data.HighScore = score
	if err := pm.Save(); err != nil {
		log.Printf("[ProgressManager] Warning: Failed to save high score: %v", err)
	}
	return true
}

// RecordLevelCompleted 上报通过的关卡编号
// 刷新最高关卡时立即持久化，返回 true 表示解锁了新关卡
func (pm *ProgressManager) RecordLevelCompleted(level int) bool {
	if level <= pm.data.HighestLevel {
		return false
	}
	pm.data.HighestLevel = level
	if err := pm.Save(); err != nil {
		log.Printf("[ProgressManager] Warning: Failed to save level progress: %v", err)
	}
	return true
}

// GetHighScore 返回历史最高分
func (pm *ProgressManager) GetHighScore() int {
	return pm.data.HighScore
}

// GetHighestLevel 返回已通过的最高关卡编号
func (pm *ProgressManager) GetHighestLevel() int {
	return pm.data.HighestLevel
}
