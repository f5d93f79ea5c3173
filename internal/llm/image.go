package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrNoImage is returned when a response carries no inline image.
var ErrNoImage = errors.New("no image in response")

// Image is a generated picture.
type Image struct {
	MIMEType string
	Data     []byte
}

// ImageGenerator turns a prompt into an image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// GenaiImageGenerator generates images with a Gemini image model.
type GenaiImageGenerator struct {
	client *genai.Client
	model  string
}

// NewGenaiImageGenerator wraps client. An empty model uses DefaultImageModel.
func NewGenaiImageGenerator(client *genai.Client, model string) *GenaiImageGenerator {
	if model == "" {
		model = DefaultImageModel
	}
	return &GenaiImageGenerator{client: client, model: model}
}

// GenerateImage returns the first inline image part of the response, in
// portrait 3:4.
func (g *GenaiImageGenerator) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: "3:4"},
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return &Image{MIMEType: mime, Data: part.InlineData.Data}, nil
		}
	}
	return nil, ErrNoImage
}
