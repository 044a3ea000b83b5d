package feedback

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/genai"
)

// GenAIBackend talks to the Gemini API.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

// NewGenAIBackend creates a backend for model, or DefaultModel when empty.
func NewGenAIBackend(ctx context.Context, apiKey, model string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIBackend{client: client, model: model}, nil
}

func (b *GenAIBackend) Upload(ctx context.Context, r io.Reader, mimeType, displayName string) (*Upload, error) {
	f, err := b.client.Files.Upload(ctx, r, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}
	return upload(f), nil
}

func (b *GenAIBackend) Get(ctx context.Context, name string) (*Upload, error) {
	f, err := b.client.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return upload(f), nil
}

func (b *GenAIBackend) Delete(ctx context.Context, name string) error {
	_, err := b.client.Files.Delete(ctx, name, nil)
	return err
}

func (b *GenAIBackend) Generate(ctx context.Context, system string, audio *Upload, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(system),
		genai.NewPartFromURI(audio.URI, audio.MIMEType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func upload(f *genai.File) *Upload {
	u := &Upload{Name: f.Name, URI: f.URI, MIMEType: f.MIMEType, State: StateActive}
	switch f.State {
	case genai.FileStateProcessing:
		u.State = StateProcessing
	case genai.FileStateFailed:
		u.State = StateFailed
	}
	return u
}
