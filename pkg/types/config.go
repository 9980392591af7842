package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. The
	// Wikimedia APIs reject requests without a descriptive agent string.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for calls to the generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the Gemini API. Ignored when the
	// Vertex AI backend is selected via VertexProject.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// VertexProject and VertexLocation select the Vertex AI backend.
	// When VertexProject is empty the Gemini API backend is used.
	VertexProject  string `json:"vertex_project,omitempty" yaml:"vertex_project,omitempty"`
	VertexLocation string `json:"vertex_location,omitempty" yaml:"vertex_location,omitempty"`
}

// NERConfig holds settings for the annotation stage.
type NERConfig struct {
	AIConfig `yaml:",inline"`

	// DefaultLabels are used when a request supplies no entity labels.
	DefaultLabels []string `json:"default_labels" yaml:"default_labels"`

	// Grounding enables the Google Search grounding tool on the first
	// annotation attempt. A failed grounded call falls back to a plain call.
	Grounding bool `json:"grounding" yaml:"grounding"`
}

// WikidataConfig holds settings for the Wikidata lookup stage.
type WikidataConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps entity search results (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries is the number of retry attempts for rate-limited or
	// overloaded Wikidata calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// ContactEmail is appended to the User-Agent per Wikimedia etiquette.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr"`
}

// SessionConfig holds settings for the annotation session store.
type SessionConfig struct {
	// DBPath is the SQLite database path (default "sessions/ner.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of listed sessions (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	NER      NERConfig      `json:"ner" yaml:"ner"`
	Wikidata WikidataConfig `json:"wikidata" yaml:"wikidata"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Session  SessionConfig  `json:"session" yaml:"session"`
}
