package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/suderio/shieldwall/internal/data"
	"github.com/suderio/shieldwall/internal/session"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the resolved game data",
	Long: `Loads the catalog the same way 'play' does (data_dir first, then the
built-in defaults), checks every action rule and prints the result.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		catalog, err := loadCatalog()
		if err != nil {
			fmt.Printf("Failed to load game data: %v\n", err)
			os.Exit(1)
		}
		if _, err := loadGate(catalog); err != nil {
			fmt.Printf("Invalid action rule: %v\n", err)
			os.Exit(1)
		}
		if err := printCatalog(os.Stdout, catalog); err != nil {
			fmt.Printf("Error printing catalog: %v\n", err)
			os.Exit(1)
		}
	},
}

func printCatalog(w io.Writer, c *data.Catalog) error {
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, session.FormatActions(c.Actions))
	for _, a := range c.Actions {
		if a.When != "" {
			fmt.Fprintf(w, "  %s only when %s\n", a.ID, a.When)
		}
	}

	fmt.Fprintln(w, "\nWaves:")
	for i, wave := range c.Waves {
		spawns := make([]string, len(wave.Spawns))
		for j, s := range wave.Spawns {
			spawns[j] = fmt.Sprintf("%dx %s", s.Count, s.Enemy.Name)
		}
		fmt.Fprintf(w, "  %d. %-20s %s\n", i+1, wave.Name, strings.Join(spawns, ", "))
	}

	fmt.Fprintln(w, "\nWall:")
	for _, b := range c.Brothers {
		fmt.Fprintf(w, "  %-8s %-9s %d HP, %.0f%% auto-defense\n", b.Name, b.Position, b.MaxHealth, 100*b.AutoDefendChance)
	}

	fmt.Fprintln(w, "\nTuning:")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Tuning); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
