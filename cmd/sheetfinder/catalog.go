// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the local sheet catalog",
	Long: `Catalog inspects the state -> city -> sheet codes table used to resolve
municipalities. The catalog is read-only; it is built offline.`,
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog counts and a sample of cities",
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	st := cat.Stats()
	fmt.Printf("States: %d\nCities: %d\nSheets: %d\n", st.States, st.Cities, st.Sheets)
	if len(st.Sample) > 0 {
		fmt.Println("Sample:")
		for _, c := range st.Sample {
			fmt.Printf("  %s / %s\n", c.City, c.State)
		}
	}
	return nil
}

// --- lookup subcommand ---

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look a municipality up in the catalog",
	Long: `Lookup prints the sheet codes of an exact catalog match, or up to ten
close city names from the same state when there is none.`,
	RunE: runCatalogLookup,
}

func runCatalogLookup(cmd *cobra.Command, args []string) error {
	city, _ := cmd.Flags().GetString("city")
	uf, _ := cmd.Flags().GetString("uf")
	asJSON, _ := cmd.Flags().GetBool("json")
	if strings.TrimSpace(city) == "" || strings.TrimSpace(uf) == "" {
		return fmt.Errorf("provide --city and --uf")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	m := cat.Lookup(uf, city)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	if m.Exact == nil {
		fmt.Printf("%s / %s not found in catalog.\n", city, strings.ToUpper(uf))
		if len(m.Suggestions) > 0 {
			fmt.Printf("Did you mean: %s\n", strings.Join(m.Suggestions, ", "))
		}
		return nil
	}

	fmt.Printf("%s / %s\n", m.Exact.City, m.Exact.State)
	for _, s := range []types.Scale{types.Scale250k, types.Scale100k, types.Scale50k} {
		codes := m.Exact.CodesFor(s)
		parts := make([]string, len(codes))
		for i, c := range codes {
			parts[i] = string(c)
		}
		fmt.Printf("  %-10s %s\n", s.Label(), strings.Join(parts, ", "))
	}
	return nil
}

func init() {
	catalogLookupCmd.Flags().String("city", "", "municipality name")
	catalogLookupCmd.Flags().String("uf", "", "two-letter state code")
	catalogLookupCmd.Flags().Bool("json", false, "output the match as JSON")

	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogLookupCmd)
	rootCmd.AddCommand(catalogCmd)
}
