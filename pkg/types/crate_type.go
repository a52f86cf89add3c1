// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// CrateType 定义箱子的类型
type CrateType int

const (
	// CrateRegular 普通箱子，携带颜色，参与三消检测
	CrateRegular CrateType = iota
	// CrateExtraPoints 奖分箱子，拾取后获得额外分数
	CrateExtraPoints
	// CrateSuperJump 超级跳箱子，拾取后获得限时跳跃增强
	CrateSuperJump
	// CrateHelmet 头盔箱子，拾取后获得一次性砸落保护
	CrateHelmet
	// CrateBomb 炸弹箱子，落地后开始引信倒计时，到期引爆3x3范围
	CrateBomb
	// CrateExtraLife 奖命箱子，拾取后生命数+1
	CrateExtraLife
)

// String 返回箱子类型的字符串表示
func (t CrateType) String() string {
	switch t {
	case CrateRegular:
		return "Regular"
	case CrateExtraPoints:
		return "ExtraPoints"
	case CrateSuperJump:
		return "SuperJump"
	case CrateHelmet:
		return "Helmet"
	case CrateBomb:
		return "Bomb"
	case CrateExtraLife:
		return "ExtraLife"
	default:
		return "Unknown"
	}
}

// IsSpecial 判断是否为特殊箱子（非普通、非炸弹）
// 特殊箱子与玩家任意方向接触时立即触发拾取效果，不会伤害玩家
func (t CrateType) IsSpecial() bool {
	switch t {
	case CrateExtraPoints, CrateSuperJump, CrateHelmet, CrateExtraLife:
		return true
	default:
		return false
	}
}

// CrateColor 定义普通箱子的颜色
// 只有 CrateRegular 类型的箱子携带颜色，用于三消检测
type CrateColor int

const (
	// CrateColorNone 无颜色（非普通箱子）
	CrateColorNone CrateColor = iota
	// CrateColorRed 红色
	CrateColorRed
	// CrateColorGreen 绿色
	CrateColorGreen
	// CrateColorBlue 蓝色
	CrateColorBlue
	// CrateColorYellow 黄色
	CrateColorYellow
	// CrateColorPurple 紫色
	CrateColorPurple
)

// String 返回颜色的字符串表示
func (c CrateColor) String() string {
	switch c {
	case CrateColorRed:
		return "Red"
	case CrateColorGreen:
		return "Green"
	case CrateColorBlue:
		return "Blue"
	case CrateColorYellow:
		return "Yellow"
	case CrateColorPurple:
		return "Purple"
	default:
		return "None"
	}
}
