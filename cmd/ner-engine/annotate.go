// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/project-lux/ner-engine/internal/ner"
	"github.com/project-lux/ner-engine/internal/render"
	"github.com/project-lux/ner-engine/internal/session"
	"github.com/project-lux/ner-engine/internal/wikidata"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [text]",
	Short: "Extract named entities from text",
	Long: `Annotate sends text to the Gemini API with an entity recognition
prompt and prints the recognized entities. With --grounded the first
attempt uses Google Search grounding; a failed grounded call falls back
to a plain call. With --enrich each resolved entity is augmented with
its Wikidata label, description, and coordinates.`,
	RunE: runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no input text: pass text as arguments or use --file")
	}

	cfg := nerConfig(cmd)
	labels := cfg.DefaultLabels
	if labelsFlag, _ := cmd.Flags().GetString("labels"); labelsFlag != "" {
		labels = ner.ParseLabels(labelsFlag)
		if len(labels) == 0 {
			return fmt.Errorf("no valid labels in %q", labelsFlag)
		}
	}

	ctx := context.Background()
	backend, err := ner.NewGeminiBackend(ctx, cfg.AIConfig)
	if err != nil {
		return err
	}

	annotator := ner.New(backend, os.Stderr)
	result := annotator.Annotate(ctx, text, labels, cfg.Grounding)

	if enrich, _ := cmd.Flags().GetBool("enrich"); enrich {
		client := wikidata.New(wikidataConfig(cmd))
		enriched := client.Enrich(ctx, result.Entities, os.Stderr)
		for i := range enriched {
			if i < len(result.Entities) && enriched[i].WikidataDescription != "" {
				result.Entities[i].Description = enriched[i].WikidataDescription
			}
		}
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := session.NewStore(sessionConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(ctx, text, labels, result)
		if err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved session %s\n", id)
	}

	if htmlOut, _ := cmd.Flags().GetString("html"); htmlOut != "" {
		page := render.Visualization(result.AnnotatedText)
		if err := os.WriteFile(htmlOut, []byte(page), 0o644); err != nil {
			return fmt.Errorf("writing visualization: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote visualization to %s\n", htmlOut)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return render.FormatJSON(result, os.Stdout)
	}

	fmt.Println(result.AnnotatedText)
	fmt.Println()
	render.FormatTable(result, os.Stdout)

	if showDiff, _ := cmd.Flags().GetBool("diff"); showDiff {
		fmt.Println()
		fmt.Println(render.Diff(text, result.AnnotatedText))
	}
	return nil
}

func init() {
	annotateCmd.Flags().String("labels", "", "entity labels, comma-separated (default: PERSON, LOCATION, ORGANIZATION)")
	annotateCmd.Flags().String("file", "", "read input text from a file")
	annotateCmd.Flags().String("model", "", "AI model identifier")
	annotateCmd.Flags().Bool("grounded", false, "use Google Search grounding on the first attempt")
	annotateCmd.Flags().Bool("enrich", false, "enrich resolved entities with Wikidata data")
	annotateCmd.Flags().Bool("save", false, "save the result as a session")
	annotateCmd.Flags().Bool("json", false, "output the result as JSON")
	annotateCmd.Flags().String("html", "", "write an HTML visualization of the annotated text to a file")
	annotateCmd.Flags().Bool("diff", false, "show a diff of original vs. annotation-stripped text")
	annotateCmd.Flags().String("db", "", "session database path (default: sessions/ner.db)")
	annotateCmd.Flags().Int("max-results", 0, "maximum Wikidata results per lookup")

	rootCmd.AddCommand(annotateCmd)
}
