package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mitinrs/stackattack2-sub000/pkg/components"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/ecs"
	"github.com/mitinrs/stackattack2-sub000/pkg/entities"
	"github.com/mitinrs/stackattack2-sub000/pkg/game"
	"github.com/mitinrs/stackattack2-sub000/pkg/systems"
	"github.com/mitinrs/stackattack2-sub000/pkg/types"
)

// 渲染用的箱子颜色
var crateColorPalette = map[types.CrateColor]color.RGBA{
	types.CrateColorRed:    {R: 0xc8, G: 0x3a, B: 0x3a, A: 0xff},
	types.CrateColorGreen:  {R: 0x3a, G: 0xa8, B: 0x4a, A: 0xff},
	types.CrateColorBlue:   {R: 0x3a, G: 0x5c, B: 0xc8, A: 0xff},
	types.CrateColorYellow: {R: 0xd8, G: 0xb8, B: 0x2a, A: 0xff},
	types.CrateColorPurple: {R: 0x8a, G: 0x3a, B: 0xb8, A: 0xff},
}

// 特殊箱子的HUD标记字母
var specialCrateLabels = map[types.CrateType]string{
	types.CrateExtraPoints: "$",
	types.CrateSuperJump:   "J",
	types.CrateHelmet:      "H",
	types.CrateExtraLife:   "+",
}

// GameScene 主玩法场景
// 持有整局的ECS世界与各系统，按固定顺序驱动每tick的模拟：
//  1. 玩家输入与角色运动
//  2. 箱子物理（下落/落地/滑行/引信/消除动画）
//  3. 玩家与箱子的碰撞解决（推动/拾取/砸中/爆炸波及）
//  4. 结构性结算（炸弹→重力→三连消除→整行消除→二次重力→顶满判定）
//  5. 得分与通关/失败判定
//  6. 回收本tick标记销毁的实体
type GameScene struct {
	sceneManager    *game.SceneManager
	gameState       *game.GameState
	progressManager *game.ProgressManager

	level   *config.LevelConfig
	levelID int

	entityManager *ecs.EntityManager
	actorEntity   ecs.EntityID

	crateManager  *systems.CrateManagerSystem
	resolver      *systems.CollisionResolverSystem
	crane         *systems.CraneSpawnSystem
	playerControl *systems.PlayerControlSystem

	gameOver      bool
	gameOverCause string
	levelComplete bool
	newHighScore  bool
	scoreRecorded bool
}

// NewGameScene 创建一局新的玩法场景
// 参数:
//   - sceneManager: 场景管理器，用于通关后切换关卡
//   - progressManager: 进度管理器，用于记录最高分与最高关卡
//   - levelID: 关卡编号，从1开始
func NewGameScene(sceneManager *game.SceneManager, progressManager *game.ProgressManager, levelID int) *GameScene {
	level := config.LevelForNumber(levelID)
	log.Printf("[GameScene] Starting level %d (%s): target %d lines, drop every %.1fs",
		levelID, level.Name, level.LineTarget, level.DropInterval)

	em := ecs.NewEntityManager()
	crateManager := systems.NewCrateManagerSystem(em)

	actorX := config.GridWorldStartX + config.CellWidth*float64(config.GridColumns)/2
	actorY := config.GroundY - config.ActorHeight/2
	actorEntity := entities.NewActorEntity(em, actorX, actorY)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	s := &GameScene{
		sceneManager:    sceneManager,
		gameState:       game.GetGameState(),
		progressManager: progressManager,
		level:           level,
		levelID:         levelID,
		entityManager:   em,
		actorEntity:     actorEntity,
		crateManager:    crateManager,
		resolver:        systems.NewCollisionResolverSystem(em, crateManager, actorEntity),
		crane:           systems.NewCraneSpawnSystem(crateManager, level, rng),
		playerControl:   systems.NewPlayerControlSystem(em, actorEntity),
	}
	s.gameState.CurrentLevel = levelID
	return s
}

// Update 每帧驱动一次模拟
func (s *GameScene) Update(deltaTime float64) {
	s.handleInput()
	if s.gameOver || s.levelComplete {
		return
	}
	s.step(deltaTime)
}

// handleInput 采集键盘输入并转发给相应系统
func (s *GameScene) handleInput() {
	if s.gameOver || s.levelComplete {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			s.restart()
		}
		if s.levelComplete && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			s.gameState.AdvanceLevel()
			s.sceneManager.LoadLevel(s.levelID + 1)
		}
		return
	}

	moveDir := 0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		moveDir = -1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		moveDir = 1
	}
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW)

	s.playerControl.SetInput(moveDir, jump)
}

// step 按固定顺序推进一个模拟tick
// 测试可跳过输入采集直接调用
func (s *GameScene) step(dt float64) {
	// 1. 玩家运动
	s.playerControl.Update(dt)

	// 2. 箱子物理
	s.crateManager.UpdateCrates(dt)

	// 3. 玩家与箱子碰撞
	resolveResult := s.resolver.Update(dt)

	// 4. 结构性结算
	tickSummary := s.crateManager.ProcessTick()

	// 5. 吊车投放
	s.crane.Update(dt)

	// 6. 得分与终局判定
	s.applyResults(resolveResult, tickSummary)

	// 7. 回收销毁实体
	s.entityManager.RemoveMarkedEntities()
}

// applyResults 把本tick两类结算结果写入全局状态并做终局判定
func (s *GameScene) applyResults(resolve systems.ResolveResult, tick systems.TickSummary) {
	s.gameState.AddScore(resolve.PointsScored)
	s.gameState.AddScore(tick.Points())
	s.gameState.AddLinesCleared(tick.LinesCleared)

	// DebugPrint字体只支持ASCII，提示文案用英文
	if resolve.GameOver {
		s.endGame("CRUSHED")
		return
	}
	if tick.ReachedTop {
		s.endGame("STACK REACHED TOP")
		return
	}

	if s.gameState.LinesCleared >= s.level.LineTarget {
		s.levelComplete = true
		s.crane.SetPaused(true)
		s.newHighScore = s.progressManager.RecordScore(s.gameState.Score)
		s.progressManager.RecordLevelCompleted(s.levelID)
		log.Printf("[GameScene] Level %d complete: score %d, lines %d",
			s.levelID, s.gameState.Score, s.gameState.LinesCleared)
	}
}

// endGame 进入游戏结束状态并记录最终成绩
func (s *GameScene) endGame(cause string) {
	if s.gameOver {
		return
	}
	s.gameOver = true
	s.gameOverCause = cause
	s.crane.SetPaused(true)
	s.newHighScore = s.progressManager.RecordScore(s.gameState.Score)
	s.scoreRecorded = true
	log.Printf("[GameScene] Game over (%s): final score %d", cause, s.gameState.Score)
}

// restart 重新开始当前关卡
func (s *GameScene) restart() {
	s.gameState.ResetRun()
	s.sceneManager.LoadLevel(s.levelID)
}

// SaveOnExit 实现 game.Saveable：窗口关闭时把当前得分计入最高分
func (s *GameScene) SaveOnExit() bool {
	if s.scoreRecorded {
		return true
	}
	s.progressManager.RecordScore(s.gameState.Score)
	return true
}

// Draw 渲染场地、箱子、玩家和HUD
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x20, G: 0x24, B: 0x2c, A: 0xff})

	// 场地边界与地面
	vector.DrawFilledRect(screen,
		float32(config.GridWorldStartX), float32(config.GridWorldTopY),
		float32(config.CellWidth*config.GridColumns), float32(config.GroundY-config.GridWorldTopY),
		color.RGBA{R: 0x2a, G: 0x2e, B: 0x38, A: 0xff}, false)
	vector.DrawFilledRect(screen,
		0, float32(config.GroundY),
		float32(config.GameWindowWidth), float32(config.GameWindowHeight-config.GroundY),
		color.RGBA{R: 0x4a, G: 0x3a, B: 0x2a, A: 0xff}, false)

	s.drawCrates(screen)
	s.drawActor(screen)
	s.drawHUD(screen)
}

// drawCrates 渲染所有箱子
// 消除/爆炸动画用透明度与缩放表现，炸弹引信用闪烁表现
func (s *GameScene) drawCrates(screen *ebiten.Image) {
	for _, id := range s.crateManager.GetAllCrates() {
		crate, ok := ecs.GetComponent[*components.CrateComponent](s.entityManager, id)
		if !ok {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}

		fill := s.crateFillColor(crate)
		alpha := crate.Alpha()
		scale := crate.Scale()

		w := float32(config.CellWidth * scale)
		h := float32(config.CellHeight * scale)
		fill.A = uint8(alpha * 255)

		vector.DrawFilledRect(screen,
			float32(pos.X)-w/2, float32(pos.Y)-h/2, w, h, fill, false)

		if label, ok := specialCrateLabels[crate.Type]; ok {
			ebitenutil.DebugPrintAt(screen, label, int(pos.X)-3, int(pos.Y)-8)
		}
	}
}

// crateFillColor 返回箱子的渲染颜色
func (s *GameScene) crateFillColor(crate *components.CrateComponent) color.RGBA {
	switch crate.Type {
	case types.CrateRegular:
		if c, ok := crateColorPalette[crate.Color]; ok {
			return c
		}
		return color.RGBA{R: 0x9a, G: 0x7a, B: 0x4a, A: 0xff}
	case types.CrateBomb:
		if crate.FlashOn {
			return color.RGBA{R: 0xff, G: 0xf0, B: 0xe0, A: 0xff}
		}
		return color.RGBA{R: 0x38, G: 0x38, B: 0x40, A: 0xff}
	default:
		// 特殊箱子统一亮色底，靠标记字母区分
		return color.RGBA{R: 0xe8, G: 0xd8, B: 0x88, A: 0xff}
	}
}

// drawActor 渲染玩家角色
func (s *GameScene) drawActor(screen *ebiten.Image) {
	actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, s.actorEntity)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.actorEntity)
	if !ok {
		return
	}

	fill := color.RGBA{R: 0xe0, G: 0xe0, B: 0xf0, A: 0xff}
	if actor.SuperJumpTimer > 0 {
		fill = color.RGBA{R: 0x80, G: 0xf0, B: 0xff, A: 0xff}
	}
	vector.DrawFilledRect(screen,
		float32(pos.X-config.ActorWidth/2), float32(pos.Y-config.ActorHeight/2),
		float32(config.ActorWidth), float32(config.ActorHeight), fill, false)

	if actor.HasHelmet {
		vector.DrawFilledRect(screen,
			float32(pos.X-config.ActorWidth/2), float32(pos.Y-config.ActorHeight/2-6),
			float32(config.ActorWidth), 6,
			color.RGBA{R: 0xd0, G: 0x60, B: 0x20, A: 0xff}, false)
	}
}

// drawHUD 渲染得分、进度和终局提示
func (s *GameScene) drawHUD(screen *ebiten.Image) {
	actor, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, s.actorEntity)
	lives := 0
	if actor != nil {
		lives = actor.Lives
	}

	hud := fmt.Sprintf("LEVEL %d  SCORE %d  LINES %d/%d  LIVES %d  HI %d",
		s.levelID, s.gameState.Score, s.gameState.LinesCleared,
		s.level.LineTarget, lives, s.progressManager.GetHighScore())
	ebitenutil.DebugPrintAt(screen, hud, 10, 10)

	if s.gameOver {
		msg := fmt.Sprintf("GAME OVER - %s\nPress R to retry", s.gameOverCause)
		if s.newHighScore {
			msg += "\nNEW HIGH SCORE!"
		}
		ebitenutil.DebugPrintAt(screen, msg, config.GameWindowWidth/2-80, config.GameWindowHeight/2-20)
	}
	if s.levelComplete {
		msg := "LEVEL COMPLETE!\nPress Enter for next level, R to replay"
		if s.newHighScore {
			msg += "\nNEW HIGH SCORE!"
		}
		ebitenutil.DebugPrintAt(screen, msg, config.GameWindowWidth/2-120, config.GameWindowHeight/2-20)
	}
}
