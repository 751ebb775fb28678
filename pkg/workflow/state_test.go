package workflow

import (
	"testing"

	"ai-legalcouncil-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestSessionStateApply(t *testing.T) {
	t.Run("set fields overwrite, absent fields preserved", func(t *testing.T) {
		state := NewSessionState("raw", ModeAnalyze)
		state.Apply(Patch{
			IsLegalDocument: BoolPtr(true),
			DocType:         StrPtr("Employment Contract"),
		})

		state.Apply(Patch{Discovery: &DiscoveryRecord{Parties: []string{"Acme Corp", "Jane Doe"}}})

		assert.True(t, state.IsLegalDocument)
		assert.Equal(t, "Employment Contract", state.DocType)
		assert.NotNil(t, state.Discovery)
	})

	t.Run("later patch wins on the same field", func(t *testing.T) {
		state := NewSessionState("raw", ModeAnalyze)
		state.Apply(Patch{DocType: StrPtr("NDA")})
		state.Apply(Patch{DocType: StrPtr("Lease Agreement")})

		assert.Equal(t, "Lease Agreement", state.DocType)
	})

	t.Run("errors and messages are append-only", func(t *testing.T) {
		state := NewSessionState("raw", ModeChat)
		state.Apply(Patch{
			Errors:   []string{"first"},
			Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		})
		state.Apply(Patch{
			Errors:   []string{"second"},
			Messages: []llm.Message{{Role: llm.RoleAssistant, Content: "hello"}},
		})

		assert.Equal(t, []string{"first", "second"}, state.Errors)
		assert.Len(t, state.Messages, 2)
		assert.Equal(t, "hi", state.Messages[0].Content)
		assert.Equal(t, "hello", state.Messages[1].Content)
	})

	t.Run("empty patch leaves state untouched", func(t *testing.T) {
		state := NewSessionState("raw", ModeAnalyze)
		state.Apply(Patch{DocType: StrPtr("MSA"), Errors: []string{"boom"}})

		before := *state
		state.Apply(Patch{})

		assert.Equal(t, before.DocType, state.DocType)
		assert.Equal(t, before.Errors, state.Errors)
	})
}

func TestPatchIsZero(t *testing.T) {
	assert.True(t, Patch{}.IsZero())
	assert.False(t, Patch{IsLegalDocument: BoolPtr(false)}.IsZero())
	assert.False(t, Patch{Errors: []string{"x"}}.IsZero())
	assert.False(t, Patch{Messages: []llm.Message{{Role: llm.RoleUser}}}.IsZero())
}

func TestErrorPatch(t *testing.T) {
	p := ErrorPatch("Validation error: timeout")
	assert.Equal(t, []string{"Validation error: timeout"}, p.Errors)
	assert.Nil(t, p.FinalSummary)
}

func TestSessionStateClone(t *testing.T) {
	state := NewSessionState("raw", ModeChat)
	state.Apply(Patch{
		Errors:   []string{"original"},
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "question"}},
	})

	snapshot := state.Clone()

	state.Apply(Patch{
		Errors:   []string{"after snapshot"},
		Messages: []llm.Message{{Role: llm.RoleAssistant, Content: "answer"}},
	})

	assert.Len(t, snapshot.Errors, 1)
	assert.Len(t, snapshot.Messages, 1)
	assert.Len(t, state.Errors, 2)
	assert.Len(t, state.Messages, 2)
	assert.Equal(t, state.DocumentID, snapshot.DocumentID)
}
