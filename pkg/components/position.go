package components

// PositionComponent 存储实体在世界坐标系中的位置
// 位置表示实体的中心点（碰撞盒与渲染均以中心对齐）
type PositionComponent struct {
	X float64 // 世界X坐标（像素）
	Y float64 // 世界Y坐标（像素），Y轴向下为正
}
