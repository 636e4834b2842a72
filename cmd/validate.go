package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/suderio/dragondice/internal/data"
	"github.com/suderio/dragondice/internal/rules"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [data_dir...]",
	Short: "Check reference catalogs and compile their rule expressions",
	Long: `Loads the reference catalogs (species, units, terrains, dragons,
spells, special icons), verifies their cross references and compiles every
rule expression they carry. A game that loads cleanly here will not hit a
bad expression mid-play.`,
	Run: func(cmd *cobra.Command, args []string) {
		dirs := dataDirs("")
		if len(args) > 0 {
			dirs = args
		}

		fmt.Printf("Validating reference data in: %v\n", dirs)

		catalog, err := data.NewLoader(dirs).LoadCatalog()
		if err != nil {
			fmt.Printf("Catalog error: %v\n", err)
			os.Exit(1)
		}

		reg, err := rules.NewRegistry()
		if err != nil {
			fmt.Printf("Rules environment error: %v\n", err)
			os.Exit(1)
		}

		exprs := catalog.Expressions()
		names := make([]string, 0, len(exprs))
		for name := range exprs {
			names = append(names, name)
		}
		sort.Strings(names)

		bar := progressbar.Default(int64(len(names)), "Compiling expressions")
		bad := 0
		for _, name := range names {
			if err := reg.Compile(exprs[name]); err != nil {
				fmt.Printf("\n%s: %v\n", name, err)
				bad++
			}
			bar.Add(1)
		}

		if bad > 0 {
			fmt.Printf("\n%d of %d expressions failed to compile.\n", bad, len(names))
			os.Exit(1)
		}
		fmt.Printf("\nCatalog OK: %d expressions compiled.\n", len(names))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
