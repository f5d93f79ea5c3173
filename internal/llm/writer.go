package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/logger"
	"github.com/RobjayMella/Nexus-Web-App/internal/utils"
)

// Fallback texts returned instead of errors.
const (
	MsgKeyMissing         = "API Key missing."
	MsgKeyMissingStandup  = "API Key missing. Cannot generate report."
	MsgDescriptionFailed  = "Could not generate description."
	MsgNoSummary          = "No summary available."
	MsgStandupFailed      = "Failed to generate standup report."
	MsgEmailEmpty         = "Failed to generate email."
	MsgDocumentationEmpty = "Failed to generate documentation."
	MsgContentFailed      = "Error generating content."
)

const analystSystemPrompt = "You are a writing assistant for a Business Analyst team. Be concise and professional."

// Enhancement is a suggested description for a new task.
type Enhancement struct {
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Subtasks    []string `json:"subtasks"`
}

// DocRequest describes a documentation draft.
type DocRequest struct {
	Title      string
	Notes      string
	Format     string // defaults to Markdown
	IncludeTOC bool
	Source     string // optional document text, clipped to MaxSourceChars
}

// Writer produces AI-assisted content. A nil chat model means no
// credentials are configured; every method then returns its missing-key
// fallback without contacting anything.
type Writer struct {
	chat   model.BaseChatModel
	images ImageGenerator
}

// NewWriter returns a writer. Either argument may be nil.
func NewWriter(chat model.BaseChatModel, images ImageGenerator) *Writer {
	return &Writer{chat: chat, images: images}
}

// Available reports whether a chat model is configured.
func (w *Writer) Available() bool {
	return w != nil && w.chat != nil
}

func (w *Writer) generate(ctx context.Context, prompt string) (string, error) {
	logger.SetLastPrompt(prompt)
	resp, err := w.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(analystSystemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Content), nil
}

// EnhanceDescription suggests a description, a priority and a few subtasks
// for a task title.
func (w *Writer) EnhanceDescription(ctx context.Context, title, kind string) Enhancement {
	if !w.Available() {
		return Enhancement{Description: MsgKeyMissing, Priority: "Medium", Subtasks: []string{}}
	}
	failed := Enhancement{Description: MsgDescriptionFailed, Priority: "Medium", Subtasks: []string{}}

	prompt := fmt.Sprintf(`I am a Business Analyst creating a %s task with the title: %q.
Please provide a professional, concise description for this task, suggest an appropriate priority level (Low, Medium, High, Critical), and a list of 3-5 actionable subtasks.
Respond with JSON only: {"description": string, "priority": string, "subtasks": [string]}`, kind, title)

	text, err := w.generate(ctx, prompt)
	if err != nil {
		slog.Warn("enhance description failed", "title", title, "error", err)
		return failed
	}
	if text == "" {
		slog.Warn("enhance description failed", "title", title, "error", "empty response")
		return failed
	}
	out, err := utils.ExtractAndParseJSON[Enhancement](text)
	if err != nil {
		slog.Warn("enhance description: unparseable response", "title", title, "error", err)
		return failed
	}
	if out.Subtasks == nil {
		out.Subtasks = []string{}
	}
	return out
}

// Standup writes a short past-tense standup summary from the most recent
// activity of one user.
func (w *Writer) Standup(ctx context.Context, logs []audit.Entry, userName string) string {
	if !w.Available() {
		return MsgKeyMissingStandup
	}
	logsJSON, err := json.Marshal(logs[:min(len(logs), MaxStandupLogs)])
	if err != nil {
		slog.Warn("standup: encode logs", "error", err)
		return MsgStandupFailed
	}
	prompt := fmt.Sprintf(`Based on the following activity logs for user %s, write a short, professional daily standup summary (past tense). Focus on completed items and new assignments.
Logs: %s`, userName, logsJSON)

	text, err := w.generate(ctx, prompt)
	if err != nil {
		slog.Warn("standup failed", "user", userName, "error", err)
		return MsgStandupFailed
	}
	if text == "" {
		return MsgNoSummary
	}
	return text
}

// Email drafts an e-mail body.
func (w *Writer) Email(ctx context.Context, recipient, topic, tone string) string {
	if !w.Available() {
		return MsgKeyMissing
	}
	if tone == "" {
		tone = "Professional"
	}
	prompt := fmt.Sprintf(`Draft a professional email for a Business Analyst.
Recipient: %s
Topic: %s
Tone: %s

Return only the email body text, no conversational filler.`, recipient, topic, tone)

	text, err := w.generate(ctx, prompt)
	if err != nil {
		slog.Warn("email draft failed", "topic", topic, "error", err)
		return MsgContentFailed
	}
	if text == "" {
		return MsgEmailEmpty
	}
	return text
}

// Documentation drafts a structured document.
func (w *Writer) Documentation(ctx context.Context, req DocRequest) string {
	if !w.Available() {
		return MsgKeyMissing
	}
	format := req.Format
	if format == "" {
		format = "Markdown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate technical documentation for a business process or feature.\nTitle: %s\nContext/Notes: %s\nFormat: %s\n", req.Title, req.Notes, format)
	if req.IncludeTOC {
		b.WriteString("Requirements: Include a Table of Contents at the very beginning.\n")
	}
	b.WriteString("\nEnsure the content is well-structured with clear headers and sections appropriate for the selected format.")
	if req.Source != "" {
		b.WriteString("\n\nAdditional Context from Uploaded Document:\n")
		b.WriteString(clip(req.Source, MaxSourceChars))
	}

	text, err := w.generate(ctx, b.String())
	if err != nil {
		slog.Warn("documentation draft failed", "title", req.Title, "error", err)
		return MsgContentFailed
	}
	if text == "" {
		return MsgDocumentationEmpty
	}
	return text
}

// Infographic renders a business infographic. With a document, the chat
// model first extracts a visual layout from it. Returns nil when nothing
// could be generated.
func (w *Writer) Infographic(ctx context.Context, prompt, document string) *Image {
	if w == nil || w.images == nil {
		return nil
	}
	enhanced := prompt
	if document != "" && w.Available() {
		analysis, err := w.generate(ctx, fmt.Sprintf(`Analyze the following document content and extract the key data points, statistics, process steps, or conceptual relationships that would make a compelling infographic about %q.

Provide a concise, visual description of how this data should be laid out in an infographic (e.g. "A 4-step circular process...", "A bar chart showing...").
Keep the description structured for an image generation model.

Document Content: %s`, prompt, clip(document, MaxSourceChars)))
		if err != nil {
			slog.Warn("infographic analysis failed", "error", err)
			return nil
		}
		enhanced = prompt + ". Visual Structure based on data: " + analysis
	}

	img, err := w.images.GenerateImage(ctx, "A professional, clean business infographic. "+enhanced)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("infographic generation failed", "error", err)
		}
		return nil
	}
	return img
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
