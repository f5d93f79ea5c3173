package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
)

// ErrNoImage is returned when no infographic could be generated.
var ErrNoImage = errors.New("no infographic generated")

// AIAvailable reports whether a chat model is configured.
func (a *App) AIAvailable() bool {
	return a.writer.Available()
}

// Standup summarizes the current user's most recent activity.
func (a *App) Standup(ctx context.Context) (string, error) {
	u, err := a.CurrentUser()
	if err != nil {
		return "", err
	}
	logs := a.log.Query(audit.Filter{UserID: u.ID, Limit: llm.MaxStandupLogs})
	return a.writer.Standup(ctx, logs, u.Name), nil
}

// Enhance suggests a description, priority and subtasks for a task title.
func (a *App) Enhance(ctx context.Context, title, kind string) llm.Enhancement {
	return a.writer.EnhanceDescription(ctx, title, kind)
}

// Email drafts an e-mail body.
func (a *App) Email(ctx context.Context, recipient, topic, tone string) string {
	return a.writer.Email(ctx, recipient, topic, tone)
}

// Documentation drafts a document. A non-empty sourcePath is read and
// passed along as extra context.
func (a *App) Documentation(ctx context.Context, req llm.DocRequest, sourcePath string) (string, error) {
	if sourcePath != "" {
		src, err := a.readSource(sourcePath)
		if err != nil {
			return "", err
		}
		req.Source = src
	}
	return a.writer.Documentation(ctx, req), nil
}

// Infographic generates an image for prompt, optionally grounded in the
// document at sourcePath, and writes it to outPath.
func (a *App) Infographic(ctx context.Context, prompt, sourcePath, outPath string) (*llm.Image, error) {
	var doc string
	if sourcePath != "" {
		src, err := a.readSource(sourcePath)
		if err != nil {
			return nil, err
		}
		doc = src
	}
	img := a.writer.Infographic(ctx, prompt, doc)
	if img == nil {
		return nil, ErrNoImage
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := afero.WriteFile(a.fs, outPath, img.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write infographic: %w", err)
	}
	return img, nil
}

func (a *App) readSource(path string) (string, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	return string(data), nil
}
