/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/config"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/memory"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// openApp loads configuration and opens the workspace. withAI also builds
// the content writer from the LLM settings.
func openApp(ctx context.Context, withAI bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := memory.NewSQLiteStore(cfg.Data.DB)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	opts := []app.Option{app.WithMaxIterations(cfg.Projection.MaxIterations)}
	if withAI {
		w, err := newWriter(ctx)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, app.WithWriter(w))
	}
	a, err := app.Open(ctx, store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// withApp opens the workspace for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return runApp(cmd, false, fn)
}

// withAIApp is withApp with the AI content writer configured.
func withAIApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return runApp(cmd, true, fn)
}

func runApp(cmd *cobra.Command, withAI bool, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, withAI)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}

func confirmOrAbort(cmd *cobra.Command, prompt string) bool {
	if isJSON() {
		return true
	}
	out(cmd, "%s", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		out(cmd, "Cancelled.\n")
		return false
	}
	return true
}

// parseAssignments reads repeated KEY=USER flags. KEY is a task id or a
// projected-occurrence key as printed by 'leave conflicts'; USER is an id,
// e-mail or name.
func parseAssignments(values []string) ([]leave.Decision, error) {
	var decisions []leave.Decision
	for _, v := range values {
		key, who, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(who) == "" {
			return nil, fmt.Errorf("invalid assignment %q (want KEY=USER)", v)
		}
		target, err := leave.ParseTargetKey(key)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, leave.Decision{Target: target, AssigneeID: strings.TrimSpace(who)})
	}
	return decisions, nil
}

