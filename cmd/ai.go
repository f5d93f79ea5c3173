/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/config"
	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI writing tools: standup, e-mail, documentation and infographics",
	Long: `AI writing tools. Credentials come from nexus.yaml (llm.apiKeys.<provider>)
or the provider's environment variable, e.g. GEMINI_API_KEY. Without a key
the commands print a short notice instead of failing.`,
}

// generate runs fn behind a spinner.
func generate[T any](label string, fn func() T) T {
	sp := ui.NewSpinner(label)
	sp.Start()
	defer sp.Stop()
	return fn()
}

var aiStandupCmd = &cobra.Command{
	Use:   "standup",
	Short: "Summarize your recent activity as a standup update",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAIApp(cmd, func(ctx context.Context, a *app.App) error {
			var err error
			report := generate("Writing standup...", func() string {
				var s string
				s, err = a.Standup(ctx)
				return s
			})
			if err != nil {
				return err
			}
			return printText(cmd, "Daily Standup", report)
		})
	},
}

var aiEnhanceCmd = &cobra.Command{
	Use:   "enhance <title>",
	Short: "Suggest a description, priority and subtasks for a task title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		return withAIApp(cmd, func(ctx context.Context, a *app.App) error {
			e := generate("Enhancing...", func() llm.Enhancement {
				return a.Enhance(ctx, args[0], kind)
			})
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), e)
			}
			var b strings.Builder
			b.WriteString(e.Description)
			if e.Priority != "" {
				fmt.Fprintf(&b, "\n\nSuggested priority: %s", e.Priority)
			}
			for _, s := range e.Subtasks {
				fmt.Fprintf(&b, "\n  - %s", s)
			}
			out(cmd, "%s\n", ui.RenderSuccessPanel(args[0], b.String()))
			return nil
		})
	},
}

var aiEmailCmd = &cobra.Command{
	Use:     "email",
	Short:   "Draft an e-mail",
	Example: `  nexus ai email --to "Charlie Kim" --topic "Q3 results delayed" --tone apologetic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		topic, _ := cmd.Flags().GetString("topic")
		tone, _ := cmd.Flags().GetString("tone")
		if topic == "" {
			return fmt.Errorf("--topic is required")
		}
		return withAIApp(cmd, func(ctx context.Context, a *app.App) error {
			body := generate("Drafting e-mail...", func() string {
				return a.Email(ctx, to, topic, tone)
			})
			return printText(cmd, "Draft", body)
		})
	},
}

var aiDocCmd = &cobra.Command{
	Use:   "doc <title>",
	Short: "Draft documentation for a process or feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := llm.DocRequest{Title: args[0]}
		req.Notes, _ = cmd.Flags().GetString("notes")
		req.Format, _ = cmd.Flags().GetString("format")
		req.IncludeTOC, _ = cmd.Flags().GetBool("toc")
		source, _ := cmd.Flags().GetString("source")
		outPath, _ := cmd.Flags().GetString("out")
		return withAIApp(cmd, func(ctx context.Context, a *app.App) error {
			var err error
			text := generate("Writing documentation...", func() string {
				var s string
				s, err = a.Documentation(ctx, req, source)
				return s
			})
			if err != nil {
				return err
			}
			if outPath == "" {
				return printText(cmd, req.Title, text)
			}
			if err := os.WriteFile(outPath, []byte(text+"\n"), 0o644); err != nil {
				return fmt.Errorf("write documentation: %w", err)
			}
			out(cmd, "%s Documentation written to %s.\n", ui.Icon("✓", ui.StyleSuccess), outPath)
			return nil
		})
	},
}

var aiInfographicCmd = &cobra.Command{
	Use:   "infographic",
	Short: "Generate an infographic image",
	Example: `  nexus ai infographic --prompt "Quarterly revenue by region" --out revenue.png
  nexus ai infographic --prompt "Onboarding process" --source onboarding.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")
		source, _ := cmd.Flags().GetString("source")
		outPath, _ := cmd.Flags().GetString("out")
		if prompt == "" {
			return fmt.Errorf("--prompt is required")
		}
		return withAIApp(cmd, func(ctx context.Context, a *app.App) error {
			var err error
			img := generate("Generating infographic...", func() *llm.Image {
				var im *llm.Image
				im, err = a.Infographic(ctx, prompt, source, outPath)
				return im
			})
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"path": outPath, "mimeType": img.MIMEType, "bytes": len(img.Data)})
			}
			out(cmd, "%s Infographic saved to %s (%s).\n", ui.Icon("✓", ui.StyleSuccess), outPath, img.MIMEType)
			return nil
		})
	},
}

var aiModelCmd = &cobra.Command{
	Use:   "model",
	Short: "Pick the chat model for a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		if provider == "" {
			provider = viper.GetString("llm.provider")
		}
		p, err := llm.ValidateProvider(provider)
		if err != nil {
			return err
		}
		modelID, err := ui.PromptModelSelection(string(p))
		if err != nil {
			return err
		}
		viper.Set("llm.provider", string(p))
		viper.Set("llm.model", modelID)

		path := viper.ConfigFileUsed()
		if path == "" {
			dir, err := config.GetGlobalConfigDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			path = filepath.Join(dir, "nexus.yaml")
		}
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		out(cmd, "%s Using %s (%s). Saved to %s.\n", ui.Icon("✓", ui.StyleSuccess), modelID, p, path)
		return nil
	},
}

func printText(cmd *cobra.Command, title, text string) error {
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]string{"title": title, "text": text})
	}
	if text == llm.MsgKeyMissing || text == llm.MsgKeyMissingStandup {
		out(cmd, "%s\n", ui.RenderWarningPanel(title, text))
		return nil
	}
	width := ui.TerminalWidth(80)
	out(cmd, "%s\n", ui.NewPanel(title, ui.WrapText(text, width-4)).WithWidth(width).Render())
	return nil
}

func init() {
	aiEnhanceCmd.Flags().String("kind", "Ad-hoc", "BAU or Ad-hoc")

	aiEmailCmd.Flags().String("to", "", "recipient")
	aiEmailCmd.Flags().String("topic", "", "what the e-mail is about")
	aiEmailCmd.Flags().String("tone", "Professional", "tone of voice")

	aiDocCmd.Flags().String("notes", "", "context and notes")
	aiDocCmd.Flags().String("format", "Markdown", "output format")
	aiDocCmd.Flags().Bool("toc", false, "include a table of contents")
	aiDocCmd.Flags().String("source", "", "document to draw additional context from")
	aiDocCmd.Flags().String("out", "", "write to this file instead of the terminal")

	aiInfographicCmd.Flags().String("prompt", "", "what the infographic shows")
	aiInfographicCmd.Flags().String("source", "", "document to extract data from")
	aiInfographicCmd.Flags().String("out", "infographic.png", "image output path")

	aiModelCmd.Flags().String("provider", "", "openai, anthropic, gemini or ollama (default: configured provider)")

	aiCmd.AddCommand(aiStandupCmd, aiEnhanceCmd, aiEmailCmd, aiDocCmd, aiInfographicCmd, aiModelCmd)
	rootCmd.AddCommand(aiCmd)
}
