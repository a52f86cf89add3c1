package entities

import (
	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
)

// NewActorEntity 创建玩家角色实体
// 参数:
//   - manager: EntityManager 实例
//   - x, y: 初始位置（世界坐标，中心对齐）
//
// 返回: 创建的实体ID
func NewActorEntity(manager *ecs.EntityManager, x, y float64) ecs.EntityID {
	id := manager.CreateEntity()

	manager.AddComponent(id, &components.ActorComponent{
		PushStrength: config.ActorDefaultPushStrength,
		Lives:        config.ActorDefaultLives,
	})
	manager.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	manager.AddComponent(id, &components.VelocityComponent{})
	manager.AddComponent(id, &components.CollisionComponent{
		Width:  config.ActorWidth,
		Height: config.ActorHeight,
	})

	return id
}
