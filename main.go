package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mitinrs/stackattack2-sub000/pkg/app"
	"github.com/mitinrs/stackattack2-sub000/pkg/config"
	"github.com/mitinrs/stackattack2-sub000/pkg/game"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	level := flag.Int("level", 0, "start at the given level (0 = continue from save)")
	flag.Parse()

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Level:   *level,
	})
	if err != nil {
		log.Fatalf("failed to initialize game: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Crate Stacker")

	err = ebiten.RunGame(gameApp)

	// 无论正常退出还是出错，都给当前场景一次保存进度的机会
	if scene := gameApp.GetSceneManager().GetCurrentScene(); scene != nil {
		if saveable, ok := scene.(game.Saveable); ok {
			saveable.SaveOnExit()
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}
