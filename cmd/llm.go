/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"log/slog"

	"github.com/cloudwego/eino/components/model"

	"github.com/RobjayMella/Nexus-Web-App/internal/config"
	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
)

// newWriter builds the AI content writer from configuration. Missing
// credentials are not an error: the writer then answers with its fallback
// messages.
func newWriter(ctx context.Context) (*llm.Writer, error) {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}

	var chat model.BaseChatModel
	if config.HasCredentials(cfg) {
		cm, err := llm.NewChatModel(ctx, cfg)
		if err != nil {
			slog.Warn("chat model unavailable", "provider", cfg.Provider, "error", err)
		} else {
			chat = cm
		}
	} else {
		slog.Debug("no API key configured", "provider", cfg.Provider)
	}

	var images llm.ImageGenerator
	if key := config.ResolveAPIKey(llm.ProviderGemini); key != "" {
		client, err := llm.NewGenaiClient(ctx, key)
		if err != nil {
			slog.Warn("image model unavailable", "error", err)
		} else {
			images = llm.NewGenaiImageGenerator(client, cfg.ImageModel)
		}
	}
	return llm.NewWriter(chat, images), nil
}
