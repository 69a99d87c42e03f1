package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/litbot/litbot/internal/config"
	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/pkg/logger"
)

func textOf(t *testing.T, msg llms.MessageContent) string {
	t.Helper()
	require.Len(t, msg.Parts, 1)
	part, ok := msg.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestNewLangChainGeneratorValidatesConfig(t *testing.T) {
	log := logger.Nop()

	_, err := NewLangChainGenerator(&config.Config{PineconeHost: "h"}, log)
	assert.Error(t, err, "OpenAI key is required")

	_, err = NewLangChainGenerator(&config.Config{OpenAIAPIKey: "k"}, log)
	assert.Error(t, err, "Pinecone host is required")

	gen, err := NewLangChainGenerator(&config.Config{
		OpenAIAPIKey:   "k",
		ChatModel:      "gpt-4.1-mini",
		EmbeddingModel: "text-embedding-3-small",
		PineconeHost:   "h",
	}, log)
	require.NoError(t, err)
	assert.NotNil(t, gen.llm)
}

func TestBuildMessages(t *testing.T) {
	docs := []schema.Document{
		{PageContent: "Ghiță este cârciumarul de la Moara cu noroc."},
		{PageContent: "Ana este soția lui Ghiță."},
	}
	history := []model.Turn{
		{Role: model.RoleUser, Content: "salut"},
		{Role: model.RoleAssistant, Content: "Salut! Cu ce te pot ajuta?"},
	}

	msgs := buildMessages("Ce relație există între Ghiță și Ana?", history, docs)
	require.Len(t, msgs, 4)

	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Contains(t, textOf(t, msgs[0]), "literatură română")

	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[1].Role)
	assert.Equal(t, "salut", textOf(t, msgs[1]))
	assert.Equal(t, llms.ChatMessageTypeAI, msgs[2].Role)

	question := textOf(t, msgs[3])
	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[3].Role)
	assert.Contains(t, question, "Întrebare: Ce relație există între Ghiță și Ana?")
	assert.Contains(t, question, docs[0].PageContent+"\n\n"+docs[1].PageContent)
}

func TestBuildMessagesNoHistoryNoDocs(t *testing.T) {
	msgs := buildMessages("Ce temă are Ion?", nil, nil)

	require.Len(t, msgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Contains(t, textOf(t, msgs[1]), "Ce temă are Ion?")
}
