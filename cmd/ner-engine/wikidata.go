// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/project-lux/ner-engine/internal/wikidata"
)

var wikidataCmd = &cobra.Command{
	Use:   "wikidata",
	Short: "Query the Wikidata knowledge base directly",
}

// --- search subcommand ---

var wikidataSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Wikidata entities by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWikidataSearch,
}

func runWikidataSearch(cmd *cobra.Command, args []string) error {
	client := wikidata.New(wikidataConfig(cmd))

	query := strings.Join(args, " ")
	results, err := client.SearchEntities(context.Background(), query, 0)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("%-12s  %-30s  %s\n", "ID", "Label", "Description")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Printf("%-12s  %-30s  %s\n", r.ID, r.Label, r.Description)
	}
	return nil
}

// --- info subcommand ---

var wikidataInfoCmd = &cobra.Command{
	Use:   "info <Q-id>",
	Short: "Show label, description, and coordinates for an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikidataInfo,
}

func runWikidataInfo(cmd *cobra.Command, args []string) error {
	client := wikidata.New(wikidataConfig(cmd))

	info, err := client.EntityInfo(context.Background(), args[0])
	if err != nil {
		return err
	}
	if info.WikidataID == "" {
		return fmt.Errorf("no Wikidata entry for %s", args[0])
	}

	fmt.Printf("ID:          %s\n", info.WikidataID)
	fmt.Printf("Label:       %s\n", info.Label)
	fmt.Printf("Description: %s\n", info.Description)
	if info.HasCoordinates {
		fmt.Printf("Coordinates: %.6f, %.6f\n", info.Latitude, info.Longitude)
	}
	return nil
}

// --- coords subcommand ---

var wikidataCoordsCmd = &cobra.Command{
	Use:   "coords <Q-id>",
	Short: "Show geographic coordinates for an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikidataCoords,
}

func runWikidataCoords(cmd *cobra.Command, args []string) error {
	client := wikidata.New(wikidataConfig(cmd))

	info, err := client.Coordinates(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !info.HasCoordinates {
		return fmt.Errorf("no coordinates for %s", args[0])
	}

	fmt.Printf("%.6f, %.6f\n", info.Latitude, info.Longitude)
	return nil
}

func init() {
	wikidataCmd.PersistentFlags().Int("max-results", 0, "maximum search results")
	wikidataSearchCmd.Flags().Bool("json", false, "output results as JSON")

	wikidataCmd.AddCommand(wikidataSearchCmd)
	wikidataCmd.AddCommand(wikidataInfoCmd)
	wikidataCmd.AddCommand(wikidataCoordsCmd)

	rootCmd.AddCommand(wikidataCmd)
}
