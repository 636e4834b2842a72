/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/suderio/dragondice/internal/data"
	"github.com/suderio/dragondice/internal/session"

	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <setup_file> [game_name]",
	Short: "Create a game from a setup file",
	Long: `Builds the starting position described by a setup file (players,
armies, terrains, dragons), runs the opening phase work and stores the
first snapshot under the configured games directory or Redis.

The game id comes from the setup file's name field, the optional
[game_name] argument, or is generated when neither is given.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data_dir")

		log := newLogger()
		store, err := openStore(log)
		if err != nil {
			fmt.Printf("Error opening game store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		loader := data.NewLoader(dataDirs(dataDir))
		catalog, err := loader.LoadCatalog()
		if err != nil {
			fmt.Printf("Error loading reference data: %v\n", err)
			os.Exit(1)
		}

		setup, err := loader.LoadSetup(args[0])
		if err != nil {
			fmt.Printf("Error reading setup file: %v\n", err)
			os.Exit(1)
		}
		if len(args) >= 2 {
			setup.Name = args[1]
		}

		app, err := session.NewFromSetup(catalog, setup, store, log)
		if err != nil {
			fmt.Printf("Error creating game: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if err := app.SaveGame(context.Background()); err != nil {
			fmt.Printf("Error saving first snapshot: %v\n", err)
			os.Exit(1)
		}

		g := app.Game()
		fmt.Printf("Game %s created.\n", g.State().ID)
		fmt.Printf("It is %s's turn, %s phase.\n", g.TurnPlayer(), g.Phase())
		fmt.Printf("Run: ddice play %s\n", g.State().ID)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringP("data_dir", "d", "", "Directory holding the reference catalogs (species, units, terrains, ...)")
}
