package components

// VelocityComponent 存储实体的速度向量
type VelocityComponent struct {
	VX float64 // 水平速度（像素/秒），向右为正
	VY float64 // 垂直速度（像素/秒），向下为正
}
