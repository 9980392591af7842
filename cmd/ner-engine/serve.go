// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/project-lux/ner-engine/internal/ner"
	"github.com/project-lux/ner-engine/internal/server"
	"github.com/project-lux/ner-engine/internal/session"
	"github.com/project-lux/ner-engine/internal/wikidata"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve starts the REST API on the configured address. The server
exposes annotation, Wikidata search, entity enrichment, and entity
editing endpoints, plus an HTML index page and a health probe.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}
	if addr == "" {
		addr = ":5000"
	}

	cfg := nerConfig(cmd)

	ctx := context.Background()
	backend, err := ner.NewGeminiBackend(ctx, cfg.AIConfig)
	if err != nil {
		return err
	}
	annotator := ner.New(backend, os.Stderr)
	client := wikidata.New(wikidataConfig(cmd))

	var store server.Store
	if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
		s, err := session.NewStore(sessionConfig(cmd))
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer s.Close()
		store = s
	}

	srv := server.New(annotator, client, store, cfg)
	return srv.ListenAndServe(addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: :5000)")
	serveCmd.Flags().String("model", "", "AI model identifier")
	serveCmd.Flags().Bool("grounded", false, "use Google Search grounding for annotation requests")
	serveCmd.Flags().Bool("no-store", false, "run without a session store")
	serveCmd.Flags().String("db", "", "session database path (default: sessions/ner.db)")
	serveCmd.Flags().Int("max-results", 0, "maximum Wikidata results per lookup")

	rootCmd.AddCommand(serveCmd)
}
