package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"shockwave/internal/app"
	"shockwave/internal/core"
	_ "shockwave/internal/shockwave"
	"shockwave/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := app.NewConfig()
	cfg.Width, cfg.Height = 48, 20
	cfg.TPS = 30
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q (available: %v)", cfg.Sim, core.SimNames())
	}
	// Log lines would tear the alternate screen.
	cfg.Verbose = false
	sim, err := factory(cfg.SimOptions())
	if err != nil {
		log.Fatalf("create %s: %v", cfg.Sim, err)
	}
	sim.Reset(cfg.Seed)

	p := tea.NewProgram(tui.New(sim, cfg.TPS, cfg.Seed), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	sim.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err())
		os.Exit(1)
	}
}
