package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"echolab.io/audioscribe/internal/config"
)

const (
	defaultTranscriptionModel = openai.Whisper1
	defaultChatModel          = openai.GPT4
	defaultTitleModel         = openai.GPT4
	defaultImageModel         = openai.CreateImageModelDallE3

	titleSystemInstruction = "You are a helpful assistant that generates concise titles for audio recordings. " +
		"The title should be 3-5 words maximum. Just return the title itself, nothing else."

	transcriptionTimeout = 2 * time.Minute
	completionTimeout    = 1 * time.Minute
	imageTimeout         = 2 * time.Minute
)

// AI is the uniform contract over the external providers. Each operation is
// a single blocking call with no internal retries; failures surface as the
// tagged variants in errors.go.
type AI interface {
	Transcribe(audio []byte, filename string) (string, error)
	Complete(prompt string) (string, error)
	TitleFor(text string) (string, error)
	GenerateImage(prompt string) (string, error)
}

type OpenAIService struct {
	client *openai.Client
}

func NewOpenAIService() *OpenAIService {
	return &OpenAIService{
		client: openai.NewClient(config.AppConfig.OpenAIAPIKey),
	}
}

// Transcribe sends the raw audio to whisper. The filename matters: the
// provider infers the container format from its extension.
func (s *OpenAIService) Transcribe(audio []byte, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), transcriptionTimeout)
	defer cancel()

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    defaultTranscriptionModel,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcription result", ErrTranscription)
	}
	return text, nil
}

func (s *OpenAIService) Complete(prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: defaultChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no completion choices returned", ErrCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAIService) TitleFor(text string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       defaultTitleModel,
		MaxTokens:   20,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: titleSystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Generate a very concise title (3-5 words maximum) for a recording about: %q.", text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrTitleGeneration)
	}

	title := strings.Trim(resp.Choices[0].Message.Content, "\"'\n\r\t .")
	if title == "" {
		return "", fmt.Errorf("%w: empty title string", ErrTitleGeneration)
	}
	return title, nil
}

func (s *OpenAIService) GenerateImage(prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
	defer cancel()

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          defaultImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageGeneration, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%w: no image reference returned", ErrImageGeneration)
	}
	return resp.Data[0].URL, nil
}
