package main

import (
	"context"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"nhooyr.io/websocket"

	"agar/client"
	"agar/server"
	"agar/utils"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Llongfile)

	if len(os.Args) > 1 && os.Args[1] == "server" {
		if err := server.Run(os.Args[1:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := utils.ReadTOML("config.toml")
	if err != nil {
		cfg = utils.Default()
	}

	ebiten.SetWindowSize(cfg.UI.Resolution.X, cfg.UI.Resolution.Y)
	ebiten.SetWindowTitle("agar")

	ctx := context.Background()
	c, _, err := websocket.Dial(ctx, "ws://"+cfg.Server.Address, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close(websocket.StatusInternalError, "")

	game := client.NewGame()
	go game.ReadMessages(ctx, c)
	go game.WriteMessages(ctx, c)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
