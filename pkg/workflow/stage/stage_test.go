package stage

import (
	"context"
	"io"
	"log"

	"github.com/google/uuid"

	"ai-legalcouncil-be/pkg/llm"
)

// scriptedProvider replays a fixed sequence of chat outcomes and records
// every call it receives.
type scriptedProvider struct {
	script []scriptedTurn
	calls  []recordedCall
}

type scriptedTurn struct {
	reply *llm.Reply
	err   error
}

type recordedCall struct {
	history []llm.Message
	opts    llm.Options
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Reply, error) {
	var opts llm.Options
	for _, o := range options {
		o(&opts)
	}
	p.calls = append(p.calls, recordedCall{
		history: append([]llm.Message(nil), history...),
		opts:    opts,
	})

	i := len(p.calls) - 1
	if i >= len(p.script) {
		return &llm.Reply{Content: "{}"}, nil
	}
	turn := p.script[i]
	return turn.reply, turn.err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	reply, err := p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

type fakeRetriever struct {
	excerpts string
	err      error

	queries []string
	docIDs  []uuid.UUID
	topKs   []int
}

func (r *fakeRetriever) Search(ctx context.Context, query string, documentID uuid.UUID, topK int) (string, error) {
	r.queries = append(r.queries, query)
	r.docIDs = append(r.docIDs, documentID)
	r.topKs = append(r.topKs, topK)
	return r.excerpts, r.err
}

type fakeIndexer struct {
	err error

	docIDs []uuid.UUID
	texts  []string
}

func (f *fakeIndexer) IndexDocument(ctx context.Context, documentID uuid.UUID, text string) error {
	f.docIDs = append(f.docIDs, documentID)
	f.texts = append(f.texts, text)
	return f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
