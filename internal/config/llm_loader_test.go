package config

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
)

func resetViperForTest(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestLoadLLMConfig_Defaults(t *testing.T) {
	resetViperForTest(t)
	clearKeyEnv(t)

	cfg, err := LoadLLMConfig()
	if err != nil {
		t.Fatalf("LoadLLMConfig() error = %v", err)
	}
	if cfg.Provider != llm.ProviderGemini {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.ImageModel != llm.DefaultImageModel {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.APIKey != "" || HasCredentials(cfg) {
		t.Errorf("expected no credentials, got key %q", cfg.APIKey)
	}
}

func TestLoadLLMConfig_InvalidProvider(t *testing.T) {
	resetViperForTest(t)
	viper.Set("llm.provider", "bard")

	if _, err := LoadLLMConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoadLLMConfig_OllamaBaseURL(t *testing.T) {
	resetViperForTest(t)
	viper.Set("llm.provider", "ollama")

	cfg, err := LoadLLMConfig()
	if err != nil {
		t.Fatalf("LoadLLMConfig() error = %v", err)
	}
	if cfg.BaseURL != llm.DefaultOllamaURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if !HasCredentials(cfg) {
		t.Error("ollama should not need a key")
	}
}

func TestResolveAPIKey_Precedence(t *testing.T) {
	resetViperForTest(t)
	clearKeyEnv(t)

	t.Setenv("API_KEY", "generic")
	if got := ResolveAPIKey(llm.ProviderGemini); got != "generic" {
		t.Errorf("fallback API_KEY: got %q", got)
	}

	t.Setenv("GOOGLE_API_KEY", "google")
	if got := ResolveAPIKey(llm.ProviderGemini); got != "google" {
		t.Errorf("GOOGLE_API_KEY: got %q", got)
	}

	t.Setenv("GEMINI_API_KEY", "gemini")
	if got := ResolveAPIKey(llm.ProviderGemini); got != "gemini" {
		t.Errorf("GEMINI_API_KEY: got %q", got)
	}

	viper.Set("llm.apiKeys.gemini", "  from-config  ")
	if got := ResolveAPIKey(llm.ProviderGemini); got != "from-config" {
		t.Errorf("config key: got %q", got)
	}

	if got := ResolveAPIKey(llm.ProviderOpenAI); got != "" {
		t.Errorf("gemini keys must not leak to openai, got %q", got)
	}
}
