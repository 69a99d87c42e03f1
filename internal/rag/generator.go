// Package rag provides the retrieval-augmented answer generator.
package rag

import (
	"context"

	"github.com/litbot/litbot/internal/model"
)

// Handler receives the generator's callback events. Zero or more HandleToken
// calls are followed by exactly one terminal call, HandleEnd or HandleError.
// Implementations must tolerate a misbehaving generator violating that order;
// the generator itself offers no cancellation primitive beyond ctx.
type Handler interface {
	HandleToken(token string)
	HandleEnd()
	HandleError(err error)
}

// Generator produces an incremental answer for a query given a bounded
// conversational history. All outcomes, including failures, are delivered
// through the handler.
type Generator interface {
	Generate(ctx context.Context, query string, history []model.Turn, h Handler)
}
