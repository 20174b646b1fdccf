package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/suderio/shieldwall/internal/data"
	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/session"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// simulationSummary aggregates autopilot battle records.
type simulationSummary struct {
	Runs          int
	Victories     int
	WavesReached  int
	Turns         int
	EnemiesKilled int
	DamageTaken   int
	BrothersLost  int
}

func (s *simulationSummary) add(r *engine.BattleRecord) {
	s.Runs++
	if r.Victory {
		s.Victories++
	}
	s.WavesReached += r.WavesReached
	s.Turns += r.Turns
	s.EnemiesKilled += r.EnemiesKilled
	s.DamageTaken += r.DamageTaken
	s.BrothersLost += r.BrothersLost
}

func (s *simulationSummary) avg(total int) float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(total) / float64(s.Runs)
}

func (s *simulationSummary) print(w io.Writer) {
	fmt.Fprintf(w, "Battles:        %d\n", s.Runs)
	fmt.Fprintf(w, "Win rate:       %.1f%%\n", 100*s.avg(s.Victories))
	fmt.Fprintf(w, "Waves reached:  %.2f\n", s.avg(s.WavesReached))
	fmt.Fprintf(w, "Turns:          %.2f\n", s.avg(s.Turns))
	fmt.Fprintf(w, "Enemies killed: %.2f\n", s.avg(s.EnemiesKilled))
	fmt.Fprintf(w, "Damage taken:   %.2f\n", s.avg(s.DamageTaken))
	fmt.Fprintf(w, "Brothers lost:  %.2f\n", s.avg(s.BrothersLost))
}

// simulate plays runs autopilot battles, seeding battle i with seed+i.
func simulate(ctx context.Context, catalog *data.Catalog, gate engine.ActionGate, seed int64, runs, maxTurns int, bar *progressbar.ProgressBar) (*simulationSummary, error) {
	summary := &simulationSummary{}
	for i := 0; i < runs; i++ {
		app, err := session.NewSession(catalog, session.Options{Seed: seed + int64(i), Gate: gate})
		if err != nil {
			return summary, err
		}
		record, err := session.NewAutopilot(app, maxTurns).Run(ctx)
		if err != nil {
			return summary, fmt.Errorf("battle %d (seed %d): %w", i+1, app.Seed(), err)
		}
		summary.add(record)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return summary, nil
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play many battles on autopilot and report the outcome",
	Long: `Runs headless battles where every die is locked and the locked runes are
spent greedily on the available actions. Useful for balancing the catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		runs, _ := cmd.Flags().GetInt("runs")
		maxTurns, _ := cmd.Flags().GetInt("max_turns")
		if runs <= 0 {
			fmt.Println("Error: --runs must be positive")
			os.Exit(1)
		}

		catalog, err := loadCatalog()
		if err != nil {
			fmt.Printf("Failed to load game data: %v\n", err)
			os.Exit(1)
		}
		gate, err := loadGate(catalog)
		if err != nil {
			fmt.Printf("Failed to compile action rules: %v\n", err)
			os.Exit(1)
		}

		seed := viper.GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("Simulating %d battles from seed %d\n", runs, seed)
		bar := progressbar.Default(int64(runs), "Battles")
		summary, err := simulate(ctx, catalog, gate.ActionGate(), seed, runs, maxTurns, bar)
		fmt.Println()
		if err != nil {
			fmt.Printf("Simulation stopped: %v\n", err)
		}
		summary.print(os.Stdout)
		if err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("runs", "n", 100, "Number of battles to play")
	simulateCmd.Flags().Int("max_turns", session.DefaultMaxTurns, "Abort a battle that lasts longer than this many turns")
}
