// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/project-lux/ner-engine/internal/render"
	"github.com/project-lux/ner-engine/internal/session"
	"github.com/project-lux/ner-engine/pkg/types"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved annotation sessions",
}

// --- list subcommand ---

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	RunE:  runSessionsList,
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(sessionConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	fmt.Printf("%-36s  %-20s  %s\n", "ID", "Created", "Text")
	fmt.Println(strings.Repeat("-", 90))
	for _, s := range sessions {
		text := s.Text
		if len(text) > 30 {
			text = text[:27] + "..."
		}
		fmt.Printf("%-36s  %-20s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), text)
	}
	return nil
}

// --- show subcommand ---

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session with its entity records",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(sessionConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Session: %s\n", sess.ID)
	fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Labels:  %s\n\n", strings.Join(sess.Labels, ", "))
	fmt.Println(sess.AnnotatedText)
	fmt.Println()
	render.FormatTable(&types.Result{AnnotatedText: sess.AnnotatedText, Entities: sess.Entities}, cmd.OutOrStdout())
	return nil
}

// --- export subcommand ---

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export one session to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsExport,
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore(sessionConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = args[0] + ".yaml"
	}
	if err := store.ExportYAML(context.Background(), args[0], out); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}

func init() {
	sessionsCmd.PersistentFlags().String("db", "", "session database path (default: sessions/ner.db)")

	sessionsListCmd.Flags().Int("limit", 0, "maximum sessions to list (0 = use default)")
	sessionsExportCmd.Flags().String("out", "", "output file path (default: <id>.yaml)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)

	rootCmd.AddCommand(sessionsCmd)
}
