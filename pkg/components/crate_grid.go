package components

import "github.com/mitinrs/stackattack2-sub000/pkg/ecs"

// CrateGridComponent 标识箱子网格管理器实体
// 用于跟踪哪些格子已被落地的箱子占用
//
// Cells 是一个二维数组，存储每个格子的占用状态
// [row][col] = EntityID，其中 0 表示空格子
// 行0为紧贴地面的一行，行号向上递增
// 网格规格: 8行 x 10列
type CrateGridComponent struct {
	// Cells 存储每个格子的占用状态 (0 表示空格子)
	Cells [8][10]ecs.EntityID
}
