package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hexforge/skirmish/internal/game"
)

func main() {
	ebiten.SetWindowTitle("Skirmish")
	ebiten.SetWindowSize(1144, 560)
	if err := ebiten.RunGame(game.New()); err != nil {
		log.Fatal(err)
	}
}
