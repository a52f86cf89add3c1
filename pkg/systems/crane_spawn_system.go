package systems

import (
	"log"
	"math/rand"
	"sort"

	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// crateTypeNames 关卡配置中的箱子类型名到枚举的映射
var crateTypeNames = map[string]types.CrateType{
	"regular":     types.CrateRegular,
	"bomb":        types.CrateBomb,
	"extraPoints": types.CrateExtraPoints,
	"superJump":   types.CrateSuperJump,
	"helmet":      types.CrateHelmet,
	"extraLife":   types.CrateExtraLife,
}

// crateColorNames 关卡配置中的颜色名到枚举的映射
var crateColorNames = map[string]types.CrateColor{
	"red":    types.CrateColorRed,
	"green":  types.CrateColorGreen,
	"blue":   types.CrateColorBlue,
	"yellow": types.CrateColorYellow,
	"purple": types.CrateColorPurple,
}

// CraneSpawnSystem 吊车投放系统
// 按关卡配置的间隔投放新箱子，类型与颜色按权重随机，
// 投放列在未满的列中随机选择
type CraneSpawnSystem struct {
	crateManager *CrateManagerSystem
	level        *config.LevelConfig
	rng          *rand.Rand

	dropTimer float64
	paused    bool
}

// NewCraneSpawnSystem 创建吊车投放系统
// 参数:
//   - cm: 箱子管理器
//   - level: 当前关卡配置，决定投放间隔与权重
//   - rng: 随机数源，由调用方注入以便测试时固定种子
func NewCraneSpawnSystem(cm *CrateManagerSystem, level *config.LevelConfig, rng *rand.Rand) *CraneSpawnSystem {
	return &CraneSpawnSystem{
		crateManager: cm,
		level:        level,
		rng:          rng,
		dropTimer:    level.DropInterval, // 开局立即投放第一个箱子
	}
}

// SetPaused 暂停/恢复投放（例如游戏结束后停止吊车）
func (s *CraneSpawnSystem) SetPaused(paused bool) {
	s.paused = paused
}

// Update 推进投放计时器，到期时投放一个新箱子
// 返回本tick是否投放成功
func (s *CraneSpawnSystem) Update(dt float64) bool {
	if s.paused {
		return false
	}
	s.dropTimer += dt
	if s.dropTimer < s.level.DropInterval {
		return false
	}
	s.dropTimer -= s.level.DropInterval

	col, ok := s.pickColumn()
	if !ok {
		// 所有列都已满：不投放，等顶满判定结束本局
		return false
	}

	crateType := s.pickCrateType()
	color := types.CrateColorNone
	if crateType == types.CrateRegular {
		color = s.pickColor()
	}

	// 吊车自己构造箱子实体，再移交给管理器从投放点开始下落
	id := s.crateManager.acquireCrateEntity(crateType, color)
	if !s.crateManager.AddExistingCrate(id, config.ColumnToWorldX(col), config.CrateSpawnY, s.level.FallSpeed()) {
		s.crateManager.releaseCrate(id)
		return false
	}
	log.Printf("[CraneSpawnSystem] Dropped %v crate at column %d", crateType, col)
	return true
}

// pickColumn 在未满的列中随机选择投放列
func (s *CraneSpawnSystem) pickColumn() (int, bool) {
	open := make([]int, 0, config.GridColumns)
	for col := 0; col < config.GridColumns; col++ {
		if s.crateManager.GetColumnHeight(col) < config.GridRows {
			open = append(open, col)
		}
	}
	if len(open) == 0 {
		return 0, false
	}
	return open[s.rng.Intn(len(open))], true
}

// sortedWeightNames 返回按名称排序的有效权重键
// map迭代顺序随机，固定种子的测试需要稳定的抽取顺序
func sortedWeightNames(weights map[string]int, warnTag string, known func(string) bool) []string {
	names := make([]string, 0, len(weights))
	for name, weight := range weights {
		if !known(name) {
			log.Printf("[CraneSpawnSystem] Warning: unknown %s %q in level config, skipped", warnTag, name)
			continue
		}
		if weight > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// pickCrateType 按权重随机选择箱子类型
// 未知的类型名跳过并告警，全部无效时退化为普通箱子
func (s *CraneSpawnSystem) pickCrateType() types.CrateType {
	names := sortedWeightNames(s.level.CrateWeights, "crate type", func(name string) bool {
		_, ok := crateTypeNames[name]
		return ok
	})
	total := 0
	for _, name := range names {
		total += s.level.CrateWeights[name]
	}
	if total <= 0 {
		return types.CrateRegular
	}

	pick := s.rng.Intn(total)
	for _, name := range names {
		weight := s.level.CrateWeights[name]
		if pick < weight {
			return crateTypeNames[name]
		}
		pick -= weight
	}
	return types.CrateRegular
}

// pickColor 按权重随机选择普通箱子的颜色
func (s *CraneSpawnSystem) pickColor() types.CrateColor {
	names := sortedWeightNames(s.level.ColorWeights, "crate color", func(name string) bool {
		_, ok := crateColorNames[name]
		return ok
	})
	total := 0
	for _, name := range names {
		total += s.level.ColorWeights[name]
	}
	if total <= 0 {
		return types.CrateColorRed
	}

	pick := s.rng.Intn(total)
	for _, name := range names {
		weight := s.level.ColorWeights[name]
		if pick < weight {
			return crateColorNames[name]
		}
		pick -= weight
	}
	return types.CrateColorRed
}
