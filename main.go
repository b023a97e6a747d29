package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	seed := flag.Int64("seed", 1, "world seed for a new profile")
	dbPath := flag.String("db", "", "SQLite profile database (empty = in-memory)")
	debug := flag.Bool("debug", false, "enable debug logging and collider overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "viewer"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("scavenger")

	game, err := NewGame(GameOptions{Seed: *seed, DBPath: *dbPath, Debug: *debug, Logger: logger})
	if err != nil {
		logger.Fatal("starting game failed", "error", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game stopped", "error", err)
	}
}
