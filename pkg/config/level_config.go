package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelConfig 关卡配置数据结构
// 定义了单个关卡的下落速度倍率、通关目标和吊车投放规则
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "1-1"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）

	// FallSpeedMultiplier 下落速度倍率，实际下落速度 = BaseFallSpeed * 倍率
	FallSpeedMultiplier float64 `yaml:"fallSpeedMultiplier"`

	// LineTarget 通关所需的消除行数
	LineTarget int `yaml:"lineTarget"`

	// DropInterval 吊车投放间隔（秒）
	DropInterval float64 `yaml:"dropInterval"`

	// CrateWeights 各类型箱子的投放权重，键为类型名（小写）：
	// regular / bomb / extraPoints / superJump / helmet / extraLife
	CrateWeights map[string]int `yaml:"crateWeights"`

	// ColorWeights 普通箱子各颜色的投放权重，键为颜色名（小写）：
	// red / green / blue / yellow / purple
	ColorWeights map[string]int `yaml:"colorWeights"`
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}

	cfg, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseLevelConfig 从YAML字节数据解析关卡配置
// 加载后应用默认值并做合法性校验
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateLevelConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultLevelConfig 返回内置的第一关配置
// 找不到关卡文件时作为兜底，保证游戏总能启动
func DefaultLevelConfig() *LevelConfig {
	cfg := &LevelConfig{
		ID:   "1-1",
		Name: "仓库一层",
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
// 确保旧配置文件可正常加载
func applyDefaults(cfg *LevelConfig) {
	if cfg.FallSpeedMultiplier <= 0 {
		cfg.FallSpeedMultiplier = 1.0
	}
	if cfg.LineTarget <= 0 {
		cfg.LineTarget = 10
	}
	if cfg.DropInterval <= 0 {
		cfg.DropInterval = 3.0
	}
	if len(cfg.CrateWeights) == 0 {
		cfg.CrateWeights = map[string]int{
			"regular":     70,
			"bomb":        10,
			"extraPoints": 8,
			"superJump":   5,
			"helmet":      4,
			"extraLife":   3,
		}
	}
	if len(cfg.ColorWeights) == 0 {
		cfg.ColorWeights = map[string]int{
			"red":    1,
			"green":  1,
			"blue":   1,
			"yellow": 1,
		}
	}
}

// validateLevelConfig 验证关卡配置的合法性
func validateLevelConfig(cfg *LevelConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("level config missing required field: id")
	}

	validTypes := map[string]bool{
		"regular": true, "bomb": true, "extraPoints": true,
		"superJump": true, "helmet": true, "extraLife": true,
	}
	totalWeight := 0
	for name, weight := range cfg.CrateWeights {
		if !validTypes[name] {
			return fmt.Errorf("unknown crate type in crateWeights: %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("negative weight for crate type %q: %d", name, weight)
		}
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return fmt.Errorf("crateWeights must contain at least one positive weight")
	}

	validColors := map[string]bool{
		"red": true, "green": true, "blue": true, "yellow": true, "purple": true,
	}
	colorWeight := 0
	for name, weight := range cfg.ColorWeights {
		if !validColors[name] {
			return fmt.Errorf("unknown color in colorWeights: %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("negative weight for color %q: %d", name, weight)
		}
		colorWeight += weight
	}
	if colorWeight <= 0 {
		return fmt.Errorf("colorWeights must contain at least one positive weight")
	}

	return nil
}

// LevelForNumber 返回指定编号的关卡配置
// 优先从 data/levels/level<N>.yaml 加载；文件不存在或无效时
// 按编号推导难度曲线：下落加快、投放加密、通关行数增加
func LevelForNumber(n int) *LevelConfig {
	if n < 1 {
		n = 1
	}

	path := fmt.Sprintf("data/levels/level%d.yaml", n)
	if cfg, err := LoadLevelConfig(path); err == nil {
		return cfg
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Config] Warning: %v (using generated level)", err)
	}

	cfg := &LevelConfig{
		ID:                  fmt.Sprintf("1-%d", n),
		Name:                fmt.Sprintf("仓库%d层", n),
		FallSpeedMultiplier: 1.0 + 0.15*float64(n-1),
		LineTarget:          8 + 2*n,
		DropInterval:        3.0 - 0.2*float64(n-1),
	}
	if cfg.DropInterval < 1.0 {
		cfg.DropInterval = 1.0
	}
	applyDefaults(cfg)
	return cfg
}

// FallSpeed 返回本关卡的实际下落速度（像素/秒）
func (c *LevelConfig) FallSpeed() float64 {
	return BaseFallSpeed * c.FallSpeedMultiplier
}
