package config

// 布局配置常量
// 本文件定义了游戏场景中的网格布局参数和坐标换算辅助函数

// Crate Grid Configuration (箱子网格配置)
// 所有坐标使用世界坐标系（相对于窗口左上角），Y轴向下为正
// 网格行号的方向与屏幕相反：行0紧贴地面，行号向上递增
const (
	// GridColumns 是网格的列数（横向格子数）
	GridColumns = 10

	// GridRows 是网格的行数（纵向格子数）
	GridRows = 8

	// CellWidth 是每个格子的宽度（像素）
	CellWidth = 48.0

	// CellHeight 是每个格子的高度（像素）
	CellHeight = 48.0

	// GridWorldStartX 是网格左边界的世界X坐标
	// 计算方式：(窗口宽度 - 列数*格子宽度) / 2 = (800 - 480) / 2
	GridWorldStartX = 160.0

	// GroundY 是地面的世界Y坐标（行0的下边界）
	GroundY = 540.0

	// GridWorldEndX 是网格右边界的世界X坐标
	GridWorldEndX = GridWorldStartX + float64(GridColumns)*CellWidth // 640.0

	// GridWorldTopY 是最高一行上边界的世界Y坐标
	// 顶行出现箱子即为 top-out（游戏结束信号）
	GridWorldTopY = GroundY - float64(GridRows)*CellHeight // 156.0

	// CrateSpawnY 是新箱子生成时的中心Y坐标（顶行上方一格）
	CrateSpawnY = GridWorldTopY - CellHeight/2
)

// 窗口配置
const (
	// GameWindowWidth 游戏窗口逻辑宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 游戏窗口逻辑高度（像素）
	GameWindowHeight = 600
)

// ColumnToWorldX 返回指定列中心的世界X坐标
func ColumnToWorldX(col int) float64 {
	return GridWorldStartX + float64(col)*CellWidth + CellWidth/2
}

// RowToWorldY 返回指定行中心的世界Y坐标
// 行0为最底行，行号向上递增，因此行号越大Y越小
func RowToWorldY(row int) float64 {
	return GroundY - float64(row)*CellHeight - CellHeight/2
}

// WorldXToColumn 将世界X坐标换算为所在列号
// 不做越界截断，调用方自行检查 IsValidColumn
func WorldXToColumn(x float64) int {
	return int((x - GridWorldStartX) / CellWidth)
}

// IsValidColumn 检查列号是否在网格范围内
func IsValidColumn(col int) bool {
	return col >= 0 && col < GridColumns
}

// IsValidCell 检查格子坐标是否在网格范围内
func IsValidCell(col, row int) bool {
	return col >= 0 && col < GridColumns && row >= 0 && row < GridRows
}
