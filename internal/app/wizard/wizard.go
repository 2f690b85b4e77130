// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package wizard is the step machine behind the multi-step listing forms.

The index starts at 0. Forward moves need the current step to be valid;
backward moves are always allowed. Submit is only offered on the last step
and re-checks every step.
*/
package wizard

import (
	"context"
	"errors"

	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/platform/i18n"
)

// Step is one page of a wizard.
type Step struct {
	ID    string
	Title string

	// Valid reports whether the step's required fields are filled.
	Valid func() bool
}

func (step Step) valid() bool {
	return step.Valid == nil || step.Valid()
}

// Errors returned by blocked transitions. Each one is also notified.
var (
	ErrStepInvalid = errors.New("wizard: current step is invalid")
	ErrIncomplete  = errors.New("wizard: not every step is valid")
	ErrNotLastStep = errors.New("wizard: submit is only available on the last step")
	ErrOutOfRange  = errors.New("wizard: step index out of range")
)

// Wizard tracks the current step.
type Wizard struct {
	steps    []Step
	index    int
	notifier *notify.Notifier

	// draft, when set, is called on every successful Next.
	draft func(ctx context.Context) error
}

// Option configures a [Wizard].
type Option func(*Wizard)

// WithDraft installs the draft-save hook.
func WithDraft(save func(ctx context.Context) error) Option {
	return func(wizard *Wizard) { wizard.draft = save }
}

// New constructs a [Wizard] positioned on the first step.
func New(steps []Step, notifier *notify.Notifier, options ...Option) *Wizard {
	wizard := &Wizard{steps: steps, notifier: notifier}
	for _, option := range options {
		option(wizard)
	}
	return wizard
}

// Index returns the current step index.
func (wizard *Wizard) Index() int { return wizard.index }

// Len returns the number of steps.
func (wizard *Wizard) Len() int { return len(wizard.steps) }

// Current returns the displayed step, or the zero Step for a wizard without
// steps.
func (wizard *Wizard) Current() Step {
	if len(wizard.steps) == 0 {
		return Step{}
	}
	return wizard.steps[wizard.index]
}

// Steps returns the step list.
func (wizard *Wizard) Steps() []Step { return wizard.steps }

// IsLast reports whether the submit action is offered.
func (wizard *Wizard) IsLast() bool { return wizard.index == len(wizard.steps)-1 }

/*
Next advances one step.

An invalid current step blocks with a required-field notification. When a
draft hook is set, a snapshot is saved after advancing; a failed save is
notified but does not undo the move.
*/
func (wizard *Wizard) Next(ctx context.Context) error {
	if len(wizard.steps) == 0 || wizard.IsLast() {
		return ErrOutOfRange
	}
	if !wizard.Current().valid() {
		wizard.notifier.Error(i18n.KeyRequiredField)
		return ErrStepInvalid
	}

	wizard.index++

	if wizard.draft != nil {
		if err := wizard.draft(ctx); err != nil {
			wizard.notifier.Error(i18n.KeyDraftFailed)
			return nil
		}
		wizard.notifier.Success(i18n.KeyDraftSaved)
	}
	return nil
}

// Previous goes back one step regardless of validity.
func (wizard *Wizard) Previous() error {
	if wizard.index == 0 {
		return ErrOutOfRange
	}
	wizard.index--
	return nil
}

// GoTo jumps to any earlier step, or to the immediate next step when the
// current one is valid. Further jumps ahead are refused.
func (wizard *Wizard) GoTo(index int) error {
	switch {
	case index < 0 || index >= len(wizard.steps):
		return ErrOutOfRange
	case index <= wizard.index:
		wizard.index = index
		return nil
	case index == wizard.index+1:
		if !wizard.Current().valid() {
			wizard.notifier.Error(i18n.KeyRequiredField)
			return ErrStepInvalid
		}
		wizard.index = index
		return nil
	default:
		return ErrStepInvalid
	}
}

// Submit validates every step and calls submit. The index is left unchanged;
// navigation afterwards is up to the caller.
func (wizard *Wizard) Submit(ctx context.Context, submit func(ctx context.Context) error) error {
	if len(wizard.steps) == 0 {
		return ErrOutOfRange
	}
	if !wizard.IsLast() {
		return ErrNotLastStep
	}
	for _, step := range wizard.steps {
		if !step.valid() {
			wizard.notifier.Error(i18n.KeyIncomplete)
			return ErrIncomplete
		}
	}
	return submit(ctx)
}
