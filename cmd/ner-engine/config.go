// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/project-lux/ner-engine/pkg/types"
)

// defaultLabels are used when neither flags nor config supply entity labels.
var defaultLabels = []string{"PERSON", "LOCATION", "ORGANIZATION"}

// aiConfig assembles the generative AI settings from flags, config file,
// environment, and .secrets/, in that order of precedence.
func aiConfig(cmd *cobra.Command) types.AIConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ner.model")
	}

	apiKey := viper.GetString("gemini_api_key")
	apiKey = secretDefault("gemini-api-key", apiKey)

	project := viper.GetString("vertex_project")
	project = secretDefault("vertex-project", project)

	return types.AIConfig{
		Model:          model,
		APIKey:         apiKey,
		VertexProject:  project,
		VertexLocation: viper.GetString("vertex_location"),
	}
}

// nerConfig assembles the annotation stage settings.
func nerConfig(cmd *cobra.Command) types.NERConfig {
	labels := defaultLabels
	if configured := viper.GetStringSlice("ner.default_labels"); len(configured) > 0 {
		labels = configured
	}

	grounded := viper.GetBool("ner.grounding")
	if cmd.Flags().Changed("grounded") {
		grounded, _ = cmd.Flags().GetBool("grounded")
	}

	return types.NERConfig{
		AIConfig:      aiConfig(cmd),
		DefaultLabels: labels,
		Grounding:     grounded,
	}
}

// wikidataConfig assembles the Wikidata client settings.
func wikidataConfig(cmd *cobra.Command) types.WikidataConfig {
	email := viper.GetString("wikidata.contact_email")
	email = secretDefault("wikidata-contact-email", email)

	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.WikidataConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: viper.GetString("wikidata.user_agent"),
		},
		MaxResults:   maxResults,
		MaxRetries:   viper.GetInt("wikidata.max_retries"),
		ContactEmail: email,
	}
}

// sessionConfig assembles the session store settings.
func sessionConfig(cmd *cobra.Command) types.SessionConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("session.db_path")
	}
	return types.SessionConfig{
		DBPath:     dbPath,
		MaxResults: viper.GetInt("session.max_results"),
	}
}
