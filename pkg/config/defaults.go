package config

const (
	defaultTarget         = "http://localhost:11434"
	defaultTimeoutSeconds = 300

	defaultTemperature       = 0.8
	defaultTopP              = 0.95
	defaultRepetitionPenalty = 1.2
)

// defaultCannedPrompts is the fixed prompt list replayed by canned mode for
// quick smoke-testing.
func defaultCannedPrompts() []string {
	return []string{
		"Hello, how are you?",
		"What is the capital of France?",
		"Tell me a short joke",
	}
}

// defaultModels is the built-in model menu. The first entry is the fallback
// for blank or invalid menu input. Smaller models get a tighter output cap.
func defaultModels() []Model {
	return []Model{
		{
			Name:          "Qwen2.5-0.5B-Instruct",
			Tag:           "qwen2.5:0.5b",
			Description:   "Qwen2.5-0.5B (0.5B params) - Very fast, basic quality",
			ContextLength: 512,
			MaxTokens:     512,
		},
		{
			Name:          "Qwen2.5-1.5B-Instruct",
			Tag:           "qwen2.5:1.5b",
			Description:   "Qwen2.5-1.5B (1.5B params) - Better quality, moderate speed",
			ContextLength: 2048,
			MaxTokens:     1024,
		},
		{
			Name:          "SmolLM2-1.7B-Instruct",
			Tag:           "smollm2:1.7b",
			Description:   "SmolLM2-1.7B (1.7B params) - Good quality, moderate speed",
			ContextLength: 2048,
			MaxTokens:     1024,
		},
	}
}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Target:         defaultTarget,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Sampling: SamplingConfig{
			Temperature:       defaultTemperature,
			TopP:              defaultTopP,
			RepetitionPenalty: defaultRepetitionPenalty,
		},
		History: HistoryConfig{
			Enabled: false,
		},
		Chat: ChatConfig{
			CannedPrompts: defaultCannedPrompts(),
		},
		Models: defaultModels(),
	}
}
