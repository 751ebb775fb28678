package workflow

import (
	"context"
	"fmt"
	"log"
)

// StageID identifies a node in the static stage graph.
type StageID string

const (
	StageValidate  StageID = "validate"
	StageIndex     StageID = "index"
	StageDiscover  StageID = "discover"
	StageAnalyze   StageID = "analyze"
	StageTranslate StageID = "translate"
	StageConverse  StageID = "converse"
)

// Node is a single unit of work in the stage graph. A node consumes the
// current state and returns a partial update; it must convert collaborator
// failures into Errors entries rather than panicking, so the engine can keep
// its state transitions consistent.
type Node interface {
	Name() StageID
	Run(ctx context.Context, state *SessionState) Patch
}

// Event is emitted after each stage completes. The terminating event carries
// a snapshot of the final state.
type Event struct {
	Stage StageID       `json:"stage"`
	Patch Patch         `json:"patch"`
	Final *SessionState `json:"final,omitempty"`
}

// Decision is the guard verdict evaluated after every analysis stage.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionEnd      Decision = "end"
)

// Engine drives one SessionState through the stage graph. The topology is
// small and static, so it is written out as an explicit state machine
// (route → stage → guard) instead of a generic graph executor.
//
// Analysis path: validate → (discover → analyze → translate), each gated by
// Guard; the index node is dispatched fire-and-forget when validation begins
// and its outcome never feeds back into the analysis branch.
// Chat path: a single converse turn.
type Engine struct {
	validate  Node
	index     Node
	discover  Node
	analyze   Node
	translate Node
	converse  Node
	logger    *log.Logger
}

type Nodes struct {
	Validate  Node
	Index     Node
	Discover  Node
	Analyze   Node
	Translate Node
	Converse  Node
}

func NewEngine(nodes Nodes, logger *log.Logger) *Engine {
	return &Engine{
		validate:  nodes.Validate,
		index:     nodes.Index,
		discover:  nodes.Discover,
		analyze:   nodes.Analyze,
		translate: nodes.Translate,
		converse:  nodes.Converse,
		logger:    logger,
	}
}

// RouteEntry decides the entry stage from mode plus guard conditions. Chat
// is only allowed after a successful analysis; every other case, including
// unknown mode values, falls back to the analysis entry.
func RouteEntry(state *SessionState) StageID {
	if state.Mode == ModeChat {
		if state.FinalSummary != nil && len(state.Errors) == 0 {
			return StageConverse
		}
		// Chat requested but analysis missing or failed → run analysis first
		return StageValidate
	}
	return StageValidate
}

// Guard stops the analysis path as soon as any stage has recorded an error.
func Guard(state *SessionState) Decision {
	if len(state.Errors) > 0 {
		return DecisionEnd
	}
	return DecisionContinue
}

// Run executes the session to completion on its own goroutine and streams a
// stage-completion event per stage. The engine is the single writer of the
// state for the whole run; the channel is closed after the terminating event.
func (e *Engine) Run(ctx context.Context, state *SessionState) <-chan Event {
	events := make(chan Event, 8)

	go func() {
		defer close(events)

		entry := RouteEntry(state)
		if entry == StageConverse {
			e.runStage(ctx, e.converse, state, events, true)
			return
		}
		e.runAnalysisPath(ctx, state, events)
	}()

	return events
}

func (e *Engine) runAnalysisPath(ctx context.Context, state *SessionState, events chan<- Event) {
	// Indexing starts with validation and is never awaited. It works from a
	// snapshot so the analysis branch stays the sole writer of the live state.
	if e.index != nil {
		snapshot := state.Clone()
		go func() {
			patch := e.safeRun(ctx, e.index, snapshot)
			for _, msg := range patch.Errors {
				e.logger.Printf("[INDEX] %s", msg)
			}
		}()
	}

	order := []Node{e.validate, e.discover, e.analyze, e.translate}
	for i, node := range order {
		patch := e.safeRun(ctx, node, state)
		state.Apply(patch)

		last := i == len(order)-1 || Guard(state) == DecisionEnd

		ev := Event{Stage: node.Name(), Patch: patch}
		if last {
			ev.Final = state.Clone()
		}
		events <- ev

		if last {
			if Guard(state) == DecisionEnd {
				e.logger.Printf("[ENGINE] analysis ended early at %s: %v", node.Name(), state.Errors)
			}
			return
		}
	}
}

// safeRun shields the engine from a panicking node: the panic becomes an
// Errors entry and the run continues its normal guard logic.
func (e *Engine) safeRun(ctx context.Context, node Node, state *SessionState) (patch Patch) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("[ENGINE] %s panicked: %v", node.Name(), r)
			patch = ErrorPatch(fmt.Sprintf("Stage %s failed: internal error", node.Name()))
		}
	}()
	return node.Run(ctx, state)
}

func (e *Engine) runStage(ctx context.Context, node Node, state *SessionState, events chan<- Event, terminal bool) {
	patch := e.safeRun(ctx, node, state)
	state.Apply(patch)

	ev := Event{Stage: node.Name(), Patch: patch}
	if terminal {
		ev.Final = state.Clone()
	}
	events <- ev
}
