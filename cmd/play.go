/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/session"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var playCmd = &cobra.Command{
	Use:   "play [battle_name]",
	Short: "Start an interactive battle",
	Long: `Forms the shield wall and starts the interactive battle shell.
Every event is appended to battles_dir/<battle_name>/log.jsonl.
Without a name the battle is named after the current time.
Usage:
	> start
	> lock 1 3 4
	> use strike and block`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")

		battleName := time.Now().Format("battle-20060102-150405")
		if len(args) == 1 {
			battleName = args[0]
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

		store, err := battleManager().Create(battleName)
		if err != nil {
			fmt.Printf("Error creating battle journal: %v\n", err)
			os.Exit(1)
		}

		opts := session.Options{
			Seed:  viper.GetInt64("seed"),
			Store: store,
			Gate:  gate.ActionGate(),
			Pacer: engine.NoPause{},
		}
		if plain {
			opts.Pacer = engine.SleepPacer{}
			opts.SettleDelay = viper.GetDuration("settle_delay")
		}

		app, err := session.NewSession(catalog, opts)
		if err != nil {
			fmt.Printf("Failed to bootstrap battle session: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if plain {
			fmt.Printf("Battle '%s' (seed %d). Type 'start' to begin, 'exit' or 'quit' to leave.\n\n", battleName, app.Seed())
			if err := runPlain(app, os.Stdin, os.Stdout); err != nil {
				fmt.Printf("Fatal input error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := RunTUI(app, battleName); err != nil {
			fmt.Printf("Fatal TUI Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// runPlain is the line-mode shell. Events are printed as they are emitted so
// the pacing between phases is visible.
func runPlain(app *session.Session, in io.Reader, out io.Writer) error {
	app.Subscribe(func(evt engine.Event) {
		if msg := evt.Message(); msg != "" {
			fmt.Fprintln(out, msg)
		}
	})

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if line != "" {
			resp, err := app.Execute(line)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			} else if resp.Text != "" {
				fmt.Fprintln(out, resp.Text)
			}
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("plain", false, "Use a line-mode prompt instead of the full-screen shell")
}
