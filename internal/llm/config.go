package llm

// ModelTier selects a model by capability rather than by name, so callers
// can ask for "cheap" or "capable" without hardcoding model identifiers.
type ModelTier string

const (
	// TierLite is the cheapest tier, used for short structured extractions.
	TierLite ModelTier = "lite"
	// TierStandard is the default tier for prose generation.
	TierStandard ModelTier = "standard"
)

// Config holds the model selection for an LLM client.
type Config struct {
	Models map[ModelTier]string
}

// DefaultGeminiConfig returns the model mapping used when nothing is
// configured explicitly.
func DefaultGeminiConfig() Config {
	return Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// tier and then to any configured model.
func (c Config) GetModel(tier ModelTier) string {
	if m, ok := c.Models[tier]; ok && m != "" {
		return m
	}
	if m, ok := c.Models[TierStandard]; ok && m != "" {
		return m
	}
	for _, m := range c.Models {
		if m != "" {
			return m
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c Config) WithModel(tier ModelTier, model string) Config {
	models := make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		models[k] = v
	}
	models[tier] = model
	return Config{Models: models}
}
