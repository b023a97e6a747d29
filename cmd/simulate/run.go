package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/ecs/system"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/metrics"
	"github.com/milk9111/scavenger/world"
)

var (
	flagFrames      int
	flagDT          float64
	flagMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate frames with the bot and print a summary",
	Long: `Run the world for a fixed number of frames. Spawns are acknowledged
automatically and versus/knockout animations finish after one second of
simulated time.

Examples:
  simulate run
  simulate run --frames 6000 --dt 0.005
  simulate run --metrics :9090`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 3600, "Number of frames to simulate")
	runCmd.Flags().Float64Var(&flagDT, "dt", 1.0/60, "Frame time in seconds")
	runCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address (host:port)")
}

// summary counts what happened during a run.
type summary struct {
	frames    int
	scavenged int
	collected int
	fights    int
	faults    int
}

func (s *summary) record(events []ecs.Event) {
	for _, ev := range events {
		switch ev.Type {
		case system.EventScavenged:
			s.scavenged++
		case system.EventItemCollected:
			s.collected++
		case system.EventFault:
			s.faults++
		case system.EventModeChanged:
			if mc, ok := ev.Data.(world.ModeChange); ok && mc.To == world.VersusAnimation {
				s.fights++
			}
		}
	}
}

func runRun(cmd *cobra.Command, _ []string) error {
	if flagFrames < 0 || flagDT <= 0 {
		return fmt.Errorf("--frames must not be negative and --dt must be positive")
	}
	logger, err := newLogger("simulate")
	if err != nil {
		return err
	}
	prof, closeProfile, err := openProfile()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeProfile(); err != nil {
			logger.Warn("closing profile failed", "error", err)
		}
	}()

	var m *metrics.Metrics
	if flagMetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if m, err = metrics.New(reg); err != nil {
			return err
		}
		srv := &http.Server{Addr: flagMetricsAddr, Handler: metrics.Handler(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", flagMetricsAddr, "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		logger.Info("serving metrics", "addr", flagMetricsAddr)
	}

	w, err := world.New(world.Options{
		Logger:               logger.WithPrefix("world"),
		Profile:              prof,
		Metrics:              m,
		AutoAcknowledgeSpawn: true,
	})
	if err != nil {
		return err
	}

	b := newBot(w, rand.New(rand.NewSource(prof.Seed())), logger.WithPrefix("bot"))
	var sum summary
	start := time.Now()
	for sum.frames < flagFrames {
		b.step(flagDT)
		if err := w.Update(flagDT); err != nil {
			return err
		}
		sum.frames++
		sum.record(w.Events())
		if w.Mode() == world.GameOver {
			// The final knockout animation was acknowledged by the bot.
			logger.Info("game over", "frame", sum.frames)
			break
		}
	}
	logger.Debug("run finished", "elapsed", time.Since(start))

	printSummary(cmd, w, &sum)
	return nil
}

func printSummary(cmd *cobra.Command, w *world.World, sum *summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Simulated %d frames (%.1fs), seed %d\n\n", sum.frames, float64(sum.frames)*flagDT, w.Profile().Seed())
	fmt.Fprintf(out, "  %-10s  %v\n", "Mode", w.Mode())
	if obj, ok := ecs.Get(w.ECS(), w.Player(), component.ObjectComponent.Kind()); ok {
		fmt.Fprintf(out, "  %-10s  %v\n", "Cell", obj.Cell)
	}
	if stats, ok := ecs.Get(w.ECS(), w.Player(), component.CombatStatsComponent.Kind()); ok {
		fmt.Fprintf(out, "  %-10s  %.0f/%.0f\n", "Health", stats.Health, stats.MaxHealth)
	}
	fmt.Fprintf(out, "  %-10s  %d\n", "Scavenged", sum.scavenged)
	fmt.Fprintf(out, "  %-10s  %d\n", "Collected", sum.collected)
	fmt.Fprintf(out, "  %-10s  %d\n", "Fights", sum.fights)
	fmt.Fprintf(out, "  %-10s  %d\n", "Faults", sum.faults)

	inv, ok := ecs.Get(w.ECS(), w.Player(), component.InventoryComponent.Kind())
	if !ok {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-10s  %s\n", "Item", "Count")
	fmt.Fprintf(out, "  %-10s  %s\n", "----", "-----")
	for k := loot.ItemKind(0); k < loot.ItemKindCount; k++ {
		if n := inv.Items[k]; n > 0 {
			fmt.Fprintf(out, "  %-10s  %d\n", k, n)
		}
	}
}
