package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/config"
	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/pkg/logger"
	"github.com/litbot/litbot/pkg/metrics"
)

// LangChainGenerator answers queries with passages retrieved from a Pinecone
// index and a streaming OpenAI chat completion.
type LangChainGenerator struct {
	cfg    *config.Config
	llm    *openai.LLM
	logger *logger.Logger

	// The vector index connection is process-wide and lazily initialized on
	// first use. sync.Once keeps concurrent first requests from
	// double-initializing; there is no teardown for the process lifetime.
	initOnce sync.Once
	initErr  error
	store    pinecone.Store
}

// NewLangChainGenerator creates the generator. The OpenAI client is built
// eagerly; the Pinecone connection waits for the first request.
func NewLangChainGenerator(cfg *config.Config, log *logger.Logger) (*LangChainGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.PineconeHost == "" {
		return nil, errors.New("Pinecone host is required")
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.ChatModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &LangChainGenerator{
		cfg:    cfg,
		llm:    llm,
		logger: log,
	}, nil
}

func (g *LangChainGenerator) vectorStore() (pinecone.Store, error) {
	g.initOnce.Do(func() {
		embedder, err := embeddings.NewEmbedder(g.llm)
		if err != nil {
			g.initErr = fmt.Errorf("failed to create embedder: %w", err)
			return
		}

		store, err := pinecone.New(
			pinecone.WithHost(g.cfg.PineconeHost),
			pinecone.WithAPIKey(g.cfg.PineconeAPIKey),
			pinecone.WithEmbedder(embedder),
			pinecone.WithNameSpace(g.cfg.PineconeNamespace),
			pinecone.WithTextKey("text"),
		)
		if err != nil {
			g.initErr = fmt.Errorf("failed to connect to Pinecone: %w", err)
			return
		}

		g.store = store
		g.logger.Info("vector store initialized", zap.String("host", g.cfg.PineconeHost))
	})

	return g.store, g.initErr
}

// Generate retrieves context for query, streams the model's answer into h,
// and delivers exactly one terminal event.
func (g *LangChainGenerator) Generate(ctx context.Context, query string, history []model.Turn, h Handler) {
	store, err := g.vectorStore()
	if err != nil {
		h.HandleError(err)
		return
	}

	start := time.Now()
	docs, err := store.SimilaritySearch(ctx, query, g.cfg.RetrievalK)
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		h.HandleError(fmt.Errorf("similarity search failed: %w", err))
		return
	}

	_, err = g.llm.GenerateContent(ctx, buildMessages(query, history, docs),
		llms.WithTemperature(g.cfg.Temperature),
		llms.WithMaxTokens(g.cfg.MaxTokens),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			metrics.AnswerFragmentsTotal.Inc()
			h.HandleToken(string(chunk))
			return nil
		}),
	)
	if err != nil {
		h.HandleError(err)
		return
	}

	h.HandleEnd()
}

func buildMessages(query string, history []model.Turn, docs []schema.Document) []llms.MessageContent {
	passages := make([]string, 0, len(docs))
	for _, doc := range docs {
		passages = append(passages, doc.PageContent)
	}

	msgs := make([]llms.MessageContent, 0, len(history)+2)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == model.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, turn.Content))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman,
		fmt.Sprintf(questionTemplate, query, strings.Join(passages, "\n\n"))))

	return msgs
}
