// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/app/wizard"
	"github.com/toikana/marketplace/internal/platform/i18n"
)

// steps builds three steps whose validity is read from valid.
func steps(valid []bool) []wizard.Step {
	out := make([]wizard.Step, len(valid))
	for i := range valid {
		out[i] = wizard.Step{ID: string(rune('a' + i)), Valid: func() bool { return valid[i] }}
	}
	return out
}

func newWizard(valid []bool, options ...wizard.Option) (*wizard.Wizard, *notify.Recorder) {
	recorder := &notify.Recorder{}
	return wizard.New(steps(valid), notify.New(recorder, nil), options...), recorder
}

/*
TestNext blocks on an invalid step and notifies.
*/
func TestNext(t *testing.T) {
	valid := []bool{false, true, true}
	w, recorder := newWizard(valid)
	ctx := context.Background()

	assert.ErrorIs(t, w.Next(ctx), wizard.ErrStepInvalid)
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, []string{i18n.KeyRequiredField}, recorder.Keys())

	valid[0] = true
	require.NoError(t, w.Next(ctx))
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, 2, w.Index())
	assert.True(t, w.IsLast())
	assert.ErrorIs(t, w.Next(ctx), wizard.ErrOutOfRange)
}

/*
TestNext_DraftHook saves a snapshot on every successful Next.
*/
func TestNext_DraftHook(t *testing.T) {
	saves := 0
	var saveErr error
	w, recorder := newWizard([]bool{true, true, true}, wizard.WithDraft(func(context.Context) error {
		saves++
		return saveErr
	}))
	ctx := context.Background()

	require.NoError(t, w.Next(ctx))
	assert.Equal(t, 1, saves)

	saveErr = errors.New("disk full")
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, 2, w.Index())
	assert.Equal(t, []string{i18n.KeyDraftSaved, i18n.KeyDraftFailed}, recorder.Keys())
}

/*
TestPrevious is always allowed above index 0.
*/
func TestPrevious(t *testing.T) {
	valid := []bool{true, true, true}
	w, _ := newWizard(valid)
	ctx := context.Background()

	assert.ErrorIs(t, w.Previous(), wizard.ErrOutOfRange)
	require.NoError(t, w.Next(ctx))

	valid[1] = false
	require.NoError(t, w.Previous())
	assert.Equal(t, 0, w.Index())
}

/*
TestGoTo allows earlier steps and only the immediate next one.
*/
func TestGoTo(t *testing.T) {
	tests := []struct {
		name   string
		valid  []bool
		start  int
		target int
		want   int
		err    error
	}{
		{"earlier_always", []bool{true, false, false}, 2, 0, 0, nil},
		{"same_step", []bool{false, false, false}, 1, 1, 1, nil},
		{"next_when_valid", []bool{true, true, true}, 0, 1, 1, nil},
		{"next_when_invalid", []bool{false, true, true}, 0, 1, 0, wizard.ErrStepInvalid},
		{"skip_ahead_refused", []bool{true, true, true}, 0, 2, 0, wizard.ErrStepInvalid},
		{"negative", []bool{true, true, true}, 0, -1, 0, wizard.ErrOutOfRange},
		{"past_end", []bool{true, true, true}, 0, 3, 0, wizard.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := append([]bool(nil), tt.valid...)
			w, _ := newWizard(valid)

			// Reach the start index with every step temporarily valid.
			saved := append([]bool(nil), valid...)
			for i := range valid {
				valid[i] = true
			}
			for w.Index() < tt.start {
				require.NoError(t, w.Next(context.Background()))
			}
			copy(valid, saved)

			err := w.GoTo(tt.target)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			if tt.err != nil {
				assert.Equal(t, tt.start, w.Index())
			} else {
				assert.Equal(t, tt.want, w.Index())
			}
		})
	}
}

/*
TestSubmit re-validates every step and keeps the index.
*/
func TestSubmit(t *testing.T) {
	valid := []bool{true, true, true}
	w, recorder := newWizard(valid)
	ctx := context.Background()

	submitted := 0
	submit := func(context.Context) error { submitted++; return nil }

	assert.ErrorIs(t, w.Submit(ctx, submit), wizard.ErrNotLastStep)

	require.NoError(t, w.GoTo(1))
	require.NoError(t, w.GoTo(2))

	valid[0] = false
	assert.ErrorIs(t, w.Submit(ctx, submit), wizard.ErrIncomplete)
	assert.Equal(t, 0, submitted)
	assert.Equal(t, []string{i18n.KeyIncomplete}, recorder.Keys())

	valid[0] = true
	require.NoError(t, w.Submit(ctx, submit))
	assert.Equal(t, 1, submitted)
	assert.Equal(t, 2, w.Index())

	failure := errors.New("save failed")
	assert.ErrorIs(t, w.Submit(ctx, func(context.Context) error { return failure }), failure)
}

/*
TestNoSteps refuses every move on a wizard without steps.
*/
func TestNoSteps(t *testing.T) {
	empty := wizard.New(nil, notify.Discard())
	submitted := false

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, empty.Next(context.Background()), wizard.ErrOutOfRange)
		assert.ErrorIs(t, empty.GoTo(0), wizard.ErrOutOfRange)
		assert.ErrorIs(t, empty.Previous(), wizard.ErrOutOfRange)
		assert.ErrorIs(t, empty.Submit(context.Background(), func(context.Context) error {
			submitted = true
			return nil
		}), wizard.ErrOutOfRange)
		assert.Equal(t, wizard.Step{}, empty.Current())
	})
	assert.False(t, submitted)
	assert.Equal(t, 0, empty.Index())
}
