package components

// CollisionComponent 定义实体的碰撞检测边界框
// 用于碰撞判定系统检测实体之间的重叠（如玩家与箱子）
// 碰撞盒以实体位置为中心对齐
type CollisionComponent struct {
	Width  float64 // 碰撞盒宽度（像素）
	Height float64 // 碰撞盒高度（像素）
}

// Bounds 根据位置组件计算碰撞盒的边界
// 返回值：left, top, right, bottom（世界坐标）
func (c *CollisionComponent) Bounds(pos *PositionComponent) (float64, float64, float64, float64) {
	left := pos.X - c.Width/2
	top := pos.Y - c.Height/2
	return left, top, left + c.Width, top + c.Height
}
