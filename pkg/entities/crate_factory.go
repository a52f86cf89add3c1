// Package entities 提供实体工厂函数
// 工厂负责创建实体并挂载所需的组件组合，系统只消费组件不负责组装
package entities

import (
	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// NewCrateEntity 创建一个箱子实体
// 参数:
//   - manager: EntityManager 实例
//   - crateType: 箱子类型
//   - color: 箱子颜色（仅 Regular 类型有效，其余传 CrateColorNone）
//
// 返回: 创建的实体ID
// 新箱子处于 Idle 状态，位置由调用方（箱子管理器或吊车）设置
func NewCrateEntity(manager *ecs.EntityManager, crateType types.CrateType, color types.CrateColor) ecs.EntityID {
	id := manager.CreateEntity()

	crate := &components.CrateComponent{}
	crate.Reset(crateType, color)
	manager.AddComponent(id, crate)

	manager.AddComponent(id, &components.PositionComponent{})
	manager.AddComponent(id, &components.VelocityComponent{})
	manager.AddComponent(id, &components.CollisionComponent{
		Width:  config.CellWidth,
		Height: config.CellHeight,
	})

	return id
}

// NewCrateGridEntity 创建箱子网格实体
// 整个场景只应存在一个网格实体，由箱子管理器持有其ID
func NewCrateGridEntity(manager *ecs.EntityManager) ecs.EntityID {
	id := manager.CreateEntity()
	manager.AddComponent(id, &components.CrateGridComponent{})
	return id
}
