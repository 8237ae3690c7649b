package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nexus-sapiens/nexus/internal/credential"
)

// tracerName identifies provider spans in trace output.
const tracerName = "nexus/provider"

// GeminiConfig contains required parameters for the Gemini client.
type GeminiConfig struct {
	Credentials *credential.Manager
	Logger      *slog.Logger

	ChatModel   string
	TTSModel    string
	VideoModel  string
	Temperature float32
	MaxTokens   int
	SpeechVoice string

	// RateLimiter throttles outgoing requests. nil = default
	// (2 req/s sustained, burst of 5).
	RateLimiter *rate.Limiter
}

func (cfg GeminiConfig) validate() error {
	if cfg.Credentials == nil {
		return errors.New("credential manager is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ChatModel == "" {
		return errors.New("chat model is required")
	}
	return nil
}

// Gemini implements Client over the Gemini API's stateful Chats
// surface, so provider-side context is preserved across turns without
// re-sending history.
//
// The underlying SDK client is bound to one API key; Gemini rebuilds it
// lazily whenever the credential manager reports a different key.
type Gemini struct {
	creds   *credential.Manager
	logger  *slog.Logger
	limiter *rate.Limiter
	tracer  trace.Tracer

	chatModel   string
	ttsModel    string
	videoModel  string
	temperature float32
	maxTokens   int
	speechVoice string

	mu        sync.Mutex
	client    *genai.Client
	clientKey string // credential the cached client was built with
}

// NewGemini creates a Gemini provider client.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(2, 5)
	}

	return &Gemini{
		creds:       cfg.Credentials,
		logger:      cfg.Logger,
		limiter:     limiter,
		tracer:      otel.Tracer(tracerName),
		chatModel:   cfg.ChatModel,
		ttsModel:    cfg.TTSModel,
		videoModel:  cfg.VideoModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		speechVoice: cfg.SpeechVoice,
	}, nil
}

// ensureClient returns an SDK client for the current credential,
// rebuilding the cached one if the key changed.
func (g *Gemini) ensureClient(ctx context.Context) (*genai.Client, error) {
	key, ok := g.creds.Get()
	if !ok {
		return nil, ErrCredentialMissing
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil && g.clientKey == key {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	g.client = client
	g.clientKey = key
	g.logger.Debug("genai client (re)built")
	return client, nil
}

// StartConversation creates a provider-side chat bound to the current
// credential and the given system prompt.
func (g *Gemini) StartConversation(ctx context.Context, p ConversationParams) (Conversation, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = int32(g.maxTokens)
	}
	if p.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(p.SystemPrompt, genai.RoleUser)
	}

	history := make([]*genai.Content, 0, len(p.History))
	for _, t := range p.History {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(t.Text, role))
	}

	chat, err := client.Chats.Create(ctx, g.chatModel, config, history)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	return &geminiConversation{
		chat:    chat,
		limiter: g.limiter,
		tracer:  g.tracer,
		logger:  g.logger,
		model:   g.chatModel,
	}, nil
}

// geminiConversation wraps one *genai.Chat handle.
type geminiConversation struct {
	chat    *genai.Chat
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *slog.Logger
	model   string
}

// Send implements Conversation.
func (c *geminiConversation) Send(ctx context.Context, text string, onChunk ChunkFunc) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, "provider.send",
		trace.WithAttributes(
			attribute.String("model", c.model),
			attribute.Bool("streaming", onChunk != nil),
			attribute.Int("input_len", len(text)),
		))
	defer span.End()

	if onChunk == nil {
		resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
		if err != nil {
			return "", fmt.Errorf("send message: %w", err)
		}
		return resp.Text(), nil
	}

	var full string
	chunkCount := 0
	for resp, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			return full, fmt.Errorf("stream chunk %d: %w", chunkCount, err)
		}
		delta := resp.Text()
		if delta == "" {
			continue
		}
		chunkCount++
		full += delta
		if err := onChunk(ctx, Chunk{Text: delta}); err != nil {
			return full, fmt.Errorf("chunk callback: %w", err)
		}
	}

	span.SetAttributes(attribute.Int("chunks", chunkCount))
	c.logger.Debug("turn completed", "chunks", chunkCount, "response_len", len(full))
	return full, nil
}

// SynthesizeSpeech generates spoken audio for text using the TTS
// model. Returns raw PCM samples as delivered by the API
// (16-bit little-endian, 24 kHz mono).
func (g *Gemini) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, span := g.tracer.Start(ctx, "provider.synthesize_speech",
		trace.WithAttributes(attribute.Int("input_len", len(text))))
	defer span.End()

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.speechVoice},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.ttsModel, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, errors.New("no audio in response")
}
