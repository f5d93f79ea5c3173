package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
)

// MockChatModel implements model.BaseChatModel for testing
type MockChatModel struct {
	Response *schema.Message
	Err      error
	Prompts  []string
}

func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.Prompts = append(m.Prompts, input[len(input)-1].Content)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

type mockImages struct {
	prompt string
	img    *Image
	err    error
}

func (m *mockImages) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	m.prompt = prompt
	return m.img, m.err
}

func reply(content string) *MockChatModel {
	return &MockChatModel{Response: &schema.Message{Role: schema.Assistant, Content: content}}
}

func TestWriter_MissingKeyFallbacks(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(nil, nil)

	got := w.EnhanceDescription(ctx, "Weekly KPI Report", "BAU")
	assert.Equal(t, Enhancement{Description: MsgKeyMissing, Priority: "Medium", Subtasks: []string{}}, got)
	assert.Equal(t, MsgKeyMissingStandup, w.Standup(ctx, nil, "Alice"))
	assert.Equal(t, MsgKeyMissing, w.Email(ctx, "Stakeholders", "Q3 results", ""))
	assert.Equal(t, MsgKeyMissing, w.Documentation(ctx, DocRequest{Title: "Onboarding"}))
	assert.Nil(t, w.Infographic(ctx, "Sales funnel", ""))
}

func TestWriter_EnhanceDescription(t *testing.T) {
	m := reply("Here you go:\n```json\n{\"description\": \"Compile KPIs\", \"priority\": \"High\", \"subtasks\": [\"Pull data\", \"Build charts\"]}\n```")
	w := NewWriter(m, nil)

	got := w.EnhanceDescription(context.Background(), "Weekly KPI Report", "BAU")
	assert.Equal(t, "Compile KPIs", got.Description)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, []string{"Pull data", "Build charts"}, got.Subtasks)
	require.Len(t, m.Prompts, 1)
	assert.Contains(t, m.Prompts[0], `creating a BAU task with the title: "Weekly KPI Report"`)
}

func TestWriter_EnhanceDescriptionFailures(t *testing.T) {
	failed := Enhancement{Description: MsgDescriptionFailed, Priority: "Medium", Subtasks: []string{}}
	ctx := context.Background()

	assert.Equal(t, failed, NewWriter(&MockChatModel{Err: errors.New("quota")}, nil).EnhanceDescription(ctx, "x", "BAU"))
	assert.Equal(t, failed, NewWriter(reply(""), nil).EnhanceDescription(ctx, "x", "BAU"))
	assert.Equal(t, failed, NewWriter(reply("no json here"), nil).EnhanceDescription(ctx, "x", "BAU"))
}

func TestWriter_Standup(t *testing.T) {
	ctx := context.Background()
	logs := make([]audit.Entry, 25)
	for i := range logs {
		logs[i] = audit.Entry{ID: "log", UserID: "u1", Action: audit.ActionMoveTask, Details: "entry"}
	}
	logs[24].Details = "too old to include"

	m := reply("Completed the KPI report.")
	w := NewWriter(m, nil)
	assert.Equal(t, "Completed the KPI report.", w.Standup(ctx, logs, "Alice"))
	require.Len(t, m.Prompts, 1)
	assert.Contains(t, m.Prompts[0], "for user Alice")
	assert.NotContains(t, m.Prompts[0], "too old to include")
	assert.Equal(t, MaxStandupLogs, strings.Count(m.Prompts[0], `"details":"entry"`))

	assert.Equal(t, MsgNoSummary, NewWriter(reply("  "), nil).Standup(ctx, logs, "Alice"))
	assert.Equal(t, MsgStandupFailed, NewWriter(&MockChatModel{Err: errors.New("down")}, nil).Standup(ctx, logs, "Alice"))
}

func TestWriter_EmailAndDocumentation(t *testing.T) {
	ctx := context.Background()

	m := reply("Hi team,")
	assert.Equal(t, "Hi team,", NewWriter(m, nil).Email(ctx, "Team", "Release", ""))
	assert.Contains(t, m.Prompts[0], "Tone: Professional")
	assert.Equal(t, MsgEmailEmpty, NewWriter(reply(""), nil).Email(ctx, "Team", "Release", "Casual"))
	assert.Equal(t, MsgContentFailed, NewWriter(&MockChatModel{Err: errors.New("x")}, nil).Email(ctx, "Team", "Release", "Casual"))

	doc := reply("# Onboarding")
	source := strings.Repeat("a", MaxSourceChars) + "TAIL"
	got := NewWriter(doc, nil).Documentation(ctx, DocRequest{Title: "Onboarding", Notes: "steps", IncludeTOC: true, Source: source})
	assert.Equal(t, "# Onboarding", got)
	assert.Contains(t, doc.Prompts[0], "Format: Markdown")
	assert.Contains(t, doc.Prompts[0], "Table of Contents")
	assert.NotContains(t, doc.Prompts[0], "TAIL")
	assert.Equal(t, MsgDocumentationEmpty, NewWriter(reply(""), nil).Documentation(ctx, DocRequest{Title: "x"}))
	assert.Equal(t, MsgContentFailed, NewWriter(&MockChatModel{Err: errors.New("x")}, nil).Documentation(ctx, DocRequest{Title: "x"}))
}

func TestWriter_Infographic(t *testing.T) {
	ctx := context.Background()
	png := &Image{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}

	images := &mockImages{img: png}
	w := NewWriter(reply("A 4-step circular process"), images)
	got := w.Infographic(ctx, "Sales funnel", "Leads 100, Deals 10")
	assert.Equal(t, png, got)
	assert.Equal(t, "A professional, clean business infographic. Sales funnel. Visual Structure based on data: A 4-step circular process", images.prompt)

	images = &mockImages{img: png}
	NewWriter(nil, images).Infographic(ctx, "Sales funnel", "")
	assert.Equal(t, "A professional, clean business infographic. Sales funnel", images.prompt)

	assert.Nil(t, NewWriter(&MockChatModel{Err: errors.New("x")}, &mockImages{img: png}).Infographic(ctx, "p", "doc"))
	assert.Nil(t, NewWriter(nil, &mockImages{err: ErrNoImage}).Infographic(ctx, "p", ""))
}
