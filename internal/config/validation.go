package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity).
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	// MaxTokens range: 1 to 2097152 (Gemini 2.5 max context window).
	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	// Modern SSL modes only; allow/prefer are deprecated (MITM vulnerable).
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	// owner/name form, both segments non-empty
	owner, name, ok := strings.Cut(c.DocsRepo, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("%w: %q must be in owner/name form", ErrInvalidDocsRepo, c.DocsRepo)
	}

	return nil
}

// ValidateServe performs the additional checks required by serve mode.
// The GEMINI_API_KEY check lives here rather than Validate so that offline
// commands (version, migration tooling) work without a credential.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Genkit reads GEMINI_API_KEY directly; fail fast with a clear message
	// instead of surfacing an opaque model error on the first request.
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingAPIKey)
	}

	// TAVILY_API_KEY is deliberately NOT required: web search degrades to an
	// empty contribution without it.
	return nil
}

// DocsRepoParts splits DocsRepo into owner and name.
// Validate guarantees the format, so this never fails after Load.
func (c *Config) DocsRepoParts() (owner, name string) {
	owner, name, _ = strings.Cut(c.DocsRepo, "/")
	return owner, name
}
