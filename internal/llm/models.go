package llm

import (
	"slices"
	"strings"
)

// Model describes a chat model the content writer can be pointed at.
type Model struct {
	ID         string   // Canonical model ID (e.g., "gemini-2.5-flash")
	ProviderID string   // Internal provider ID (e.g., "gemini")
	Aliases    []string // Alternative IDs
	IsDefault  bool     // Whether this is the default model for its provider
	Images     bool     // Whether the model returns inline images
}

// ModelRegistry lists the known models. Unknown IDs still work; they are
// matched to a provider by prefix.
var ModelRegistry = []Model{
	{ID: "gemini-2.5-flash", ProviderID: ProviderGemini, IsDefault: true},
	{ID: "gemini-2.5-pro", ProviderID: ProviderGemini},
	{ID: "gemini-2.5-flash-lite", ProviderID: ProviderGemini},
	{ID: DefaultImageModel, ProviderID: ProviderGemini, Aliases: []string{"nano-banana"}, Images: true},

	{ID: "gpt-5-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-5-mini-2025-08-07"}, IsDefault: true},
	{ID: "gpt-4.1-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4.1-mini-2025-04-14"}},

	{ID: "claude-sonnet-4-5", ProviderID: ProviderAnthropic, Aliases: []string{"claude-sonnet-4-5-20250929"}, IsDefault: true},
	{ID: "claude-haiku-4-5", ProviderID: ProviderAnthropic, Aliases: []string{"claude-haiku-4-5-20251001"}},

	{ID: "llama3.2", ProviderID: ProviderOllama, IsDefault: true},
}

// GetModel returns the model definition for a given model ID or alias.
// Returns nil if the model is not found.
func GetModel(modelID string) *Model {
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		if m.ID == modelID || slices.Contains(m.Aliases, modelID) {
			return m
		}
	}
	return nil
}

// GetDefaultModelID returns the default model ID for a provider.
func GetDefaultModelID(providerID string) string {
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID && m.IsDefault {
			return m.ID
		}
	}
	return ""
}

// InferProvider attempts to determine the provider from a model name.
// Returns the provider ID and true if inference succeeded.
func InferProvider(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1"), strings.HasPrefix(modelID, "o3"), strings.HasPrefix(modelID, "o4"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mistral"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}
	return "", false
}

// ModelsForProvider returns the registry entries of one provider, default
// first.
func ModelsForProvider(providerID string) []Model {
	var out []Model
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b Model) int {
		switch {
		case a.IsDefault == b.IsDefault:
			return 0
		case a.IsDefault:
			return -1
		default:
			return 1
		}
	})
	return out
}
