package systems

import (
	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
)

// PlayerControlSystem 玩家角色控制系统
// 把场景采集到的输入转成角色的速度与跳跃，
// 并做重力积分、地面与场地边界约束
// 与箱子的碰撞由 CollisionResolverSystem 在本系统之后解决
type PlayerControlSystem struct {
	entityManager *ecs.EntityManager
	actorEntity   ecs.EntityID

	moveDir     int
	jumpPressed bool
}

// NewPlayerControlSystem 创建玩家控制系统
func NewPlayerControlSystem(em *ecs.EntityManager, actorEntity ecs.EntityID) *PlayerControlSystem {
	return &PlayerControlSystem{
		entityManager: em,
		actorEntity:   actorEntity,
	}
}

// SetInput 写入本tick的输入状态
// 参数:
//   - moveDir: 水平移动方向，-1左/0静止/+1右
//   - jump: 本tick是否按下跳跃
func (s *PlayerControlSystem) SetInput(moveDir int, jump bool) {
	s.moveDir = moveDir
	s.jumpPressed = jump
}

// Update 每tick推进角色运动
func (s *PlayerControlSystem) Update(dt float64) {
	actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, s.actorEntity)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.actorEntity)
	if !ok {
		return
	}
	vel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, s.actorEntity)
	if !ok {
		return
	}
	box, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, s.actorEntity)
	if !ok {
		return
	}

	if actor.GameOver {
		vel.VX = 0
		return
	}

	actor.MoveDir = s.moveDir
	vel.VX = float64(s.moveDir) * config.ActorMoveSpeed

	if s.jumpPressed && actor.OnGround {
		jumpSpeed := config.ActorJumpSpeed
		if actor.SuperJumpTimer > 0 {
			jumpSpeed = config.ActorSuperJumpSpeed
		}
		vel.VY = -jumpSpeed
		actor.OnGround = false
	}
	s.jumpPressed = false

	if actor.SuperJumpTimer > 0 {
		actor.SuperJumpTimer -= dt
		if actor.SuperJumpTimer < 0 {
			actor.SuperJumpTimer = 0
		}
	}

	vel.VY += config.ActorGravity * dt
	pos.X += vel.VX * dt
	pos.Y += vel.VY * dt

	// 地面约束
	if pos.Y+box.Height/2 >= config.GroundY {
		pos.Y = config.GroundY - box.Height/2
		vel.VY = 0
		actor.OnGround = true
	} else {
		actor.OnGround = false
	}

	// 场地左右边界
	if pos.X-box.Width/2 < config.GridWorldStartX {
		pos.X = config.GridWorldStartX + box.Width/2
	}
	if pos.X+box.Width/2 > config.GridWorldEndX {
		pos.X = config.GridWorldEndX - box.Width/2
	}
}
