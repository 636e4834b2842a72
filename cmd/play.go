/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/suderio/dragondice/internal/data"
	"github.com/suderio/dragondice/internal/session"

	"github.com/spf13/cobra"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play [game_id]",
	Short: "Resume a saved game in the interactive shell",
	Long: `Loads the latest snapshot of a game and starts the interactive shell.
Every line you enter is one reported decision:

	> maneuver by: alice army: alice/home faces: u1=maneuver,u2=id

Type 'help' inside the shell for the decisions the current phase accepts,
'save' to persist a snapshot and 'exit' to leave.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data_dir")
		ctx := context.Background()

		log := newLogger()
		store, err := openStore(log)
		if err != nil {
			fmt.Printf("Error opening game store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		gameID := ""
		if len(args) >= 1 {
			gameID = args[0]
		}
		if gameID == "" {
			ids, err := store.List(ctx)
			if err != nil {
				fmt.Printf("Error listing games: %v\n", err)
				os.Exit(1)
			}
			switch len(ids) {
			case 0:
				fmt.Println("No saved games. Create one with: ddice new <setup_file>")
				os.Exit(1)
			case 1:
				gameID = ids[0]
			default:
				fmt.Printf("Several saved games, pick one:\n  %s\n", strings.Join(ids, "\n  "))
				os.Exit(1)
			}
		}

		catalog, err := data.NewLoader(dataDirs(dataDir)).LoadCatalog()
		if err != nil {
			fmt.Printf("Error loading reference data: %v\n", err)
			os.Exit(1)
		}

		app, err := session.Resume(ctx, catalog, store, gameID, log)
		if err != nil {
			fmt.Printf("Error resuming game: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		fmt.Printf("Resuming '%s'...\nType 'exit' or 'quit' to leave.\n\n", gameID)

		if err := RunTUI(app, gameID); err != nil {
			fmt.Printf("Fatal TUI Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("data_dir", "d", "", "Directory holding the reference catalogs (species, units, terrains, ...)")
}
