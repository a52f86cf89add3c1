// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，便于测试和复用。
package app

import (
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/game"
	"github.com/mitinrs/stackattack2-sub000/pkg/scenes"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定起始关卡编号，0 表示从存档的最高关卡继续
	Level int
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	verbose      bool
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 打开跨平台存储，失败时降级为纯内存进度
	gdataManager, err := gdata.Open(gdata.Config{AppName: "stackattack2"})
	if err != nil {
		log.Printf("[App] Warning: failed to open storage: %v (progress will not persist)", err)
		gdataManager = nil
	}

	progressManager, err := game.NewProgressManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(levelID int) game.Scene {
		return scenes.NewGameScene(sceneManager, progressManager, levelID)
	})

	levelToLoad := cfg.Level
	if levelToLoad <= 0 {
		levelToLoad = progressManager.GetHighestLevel() + 1
		log.Printf("[App] Continuing from save: starting level %d", levelToLoad)
	}
	sceneManager.LoadLevel(levelToLoad)

	return &App{
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存进度
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}
