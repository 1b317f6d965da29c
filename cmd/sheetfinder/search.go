// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sheetfinder/internal/resolve"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the map sheets covering a municipality",
	Long: `Search looks the municipality up in the catalog, queries RIGeo for each
of its sheet codes, and prints the results grouped by scale. Municipalities
missing from the catalog are searched by name, and close catalog names are
suggested.`,
	Example: `  sheetfinder search --city Salvador --uf BA
  sheetfinder search --city "Feira de Santana" --uf BA --json
  sheetfinder search --city Salvador --uf BA --save salvador.yaml
  sheetfinder search --load salvador.yaml`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("city", "", "municipality name")
	searchCmd.Flags().String("uf", "", "two-letter state code")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "save the results to a YAML query file")
	searchCmd.Flags().String("load", "", "print a saved query file instead of searching")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	city, _ := cmd.Flags().GetString("city")
	uf, _ := cmd.Flags().GetString("uf")
	asJSON, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")
	loadPath, _ := cmd.Flags().GetString("load")

	var resp types.SearchResponse
	if loadPath != "" {
		qf, err := resolve.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Loaded %d results saved %s from %s\n",
			qf.Summary.Total, qf.Summary.Timestamp.Format(time.DateTime), qf.Source)
		resp = qf.Response
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := openCatalog(cfg.Catalog)
		if err != nil {
			return err
		}
		resp, err = newResolver(cfg, cat).Resolve(cmd.Context(), city, uf)
		if err != nil {
			return err
		}
		if savePath != "" {
			if err := resolve.WriteQueryFile(savePath, cfg.Remote.BaseURL, resp); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
		}
	}

	if asJSON {
		return resolve.FormatJSON(resp, os.Stdout)
	}
	resolve.FormatTable(resp, os.Stdout)
	return nil
}
