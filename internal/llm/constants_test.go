package llm

import "testing"

func TestInferProviderFromModel(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		wantProvider string
		wantOk       bool
	}{
		{"registry gemini", "gemini-2.5-flash", ProviderGemini, true},
		{"image model alias", "nano-banana", ProviderGemini, true},
		{"gemini prefix", "gemini-3-pro-preview", ProviderGemini, true},
		{"openai registry alias", "gpt-5-mini-2025-08-07", ProviderOpenAI, true},
		{"openai prefix", "gpt-4o", ProviderOpenAI, true},
		{"o-series", "o4-mini", ProviderOpenAI, true},
		{"claude", "claude-opus-4-5", ProviderAnthropic, true},
		{"ollama", "llama3.2", ProviderOllama, true},
		{"phi", "phi3", ProviderOllama, true},
		{"unknown model", "some-random-model", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ok := InferProviderFromModel(tt.model)
			if ok != tt.wantOk {
				t.Errorf("InferProviderFromModel(%q) ok = %v, want %v", tt.model, ok, tt.wantOk)
			}
			if provider != tt.wantProvider {
				t.Errorf("InferProviderFromModel(%q) = %q, want %q", tt.model, provider, tt.wantProvider)
			}
		})
	}
}

func TestDefaultModelForProvider(t *testing.T) {
	tests := map[string]string{
		ProviderGemini:    "gemini-2.5-flash",
		ProviderOpenAI:    "gpt-5-mini",
		ProviderAnthropic: "claude-sonnet-4-5",
		ProviderOllama:    "llama3.2",
		"unknown":         "",
	}
	for provider, want := range tests {
		if got := DefaultModelForProvider(provider); got != want {
			t.Errorf("DefaultModelForProvider(%q) = %q, want %q", provider, got, want)
		}
	}
}

func TestModelsForProvider_DefaultFirst(t *testing.T) {
	models := ModelsForProvider(ProviderGemini)
	if len(models) == 0 || !models[0].IsDefault {
		t.Fatalf("ModelsForProvider(gemini) = %+v", models)
	}
	for _, m := range models {
		if m.ProviderID != ProviderGemini {
			t.Errorf("unexpected provider %q in gemini list", m.ProviderID)
		}
	}
}
