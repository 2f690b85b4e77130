// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify delivers user-visible notifications (toasts in a web UI, lines
on stderr in the terminal client).

Components never surface raw errors to the view: they translate a message key
through [Notifier] in the current UI language and hand the result to a [Sink].
*/
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/toikana/marketplace/internal/platform/i18n"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one rendered message.
type Notification struct {
	Level   Level
	Key     string
	Message string
}

// Sink receives rendered notifications.
type Sink interface {
	Notify(notification Notification)
}

// Notifier renders message keys in the current language.
type Notifier struct {
	sink     Sink
	bundle   *i18n.Bundle
	language func() i18n.Language
}

// New constructs a [Notifier]. language is read on every message so a
// language switch applies immediately.
func New(sink Sink, language func() i18n.Language) *Notifier {
	if language == nil {
		language = func() i18n.Language { return i18n.Default }
	}
	return &Notifier{sink: sink, bundle: i18n.DefaultBundle(), language: language}
}

// Discard drops every notification.
func Discard() *Notifier {
	return New(SinkFunc(func(Notification) {}), nil)
}

// Language returns the language notifications are rendered in.
func (notifier *Notifier) Language() i18n.Language {
	return notifier.language()
}

// Info sends an informational message.
func (notifier *Notifier) Info(key string, args ...any) {
	notifier.send(LevelInfo, key, args...)
}

// Success confirms a completed action.
func (notifier *Notifier) Success(key string, args ...any) {
	notifier.send(LevelSuccess, key, args...)
}

// Error reports a failed action.
func (notifier *Notifier) Error(key string, args ...any) {
	notifier.send(LevelError, key, args...)
}

func (notifier *Notifier) send(level Level, key string, args ...any) {
	notifier.sink.Notify(Notification{
		Level:   level,
		Key:     key,
		Message: notifier.bundle.T(notifier.language(), key, args...),
	})
}

// # Sinks

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Notification)

// Notify implements [Sink].
func (fn SinkFunc) Notify(notification Notification) { fn(notification) }

// Writer prints one line per notification. Markers are colored when stdout is
// a terminal (see [color.NoColor]).
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter constructs a [Writer] sink.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Notify implements [Sink].
func (writer *Writer) Notify(notification Notification) {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	marker, paint := "[*]", color.New(color.FgHiBlue)
	switch notification.Level {
	case LevelSuccess:
		marker, paint = "[+]", color.New(color.FgHiGreen, color.Bold)
	case LevelError:
		marker, paint = "[!]", color.New(color.FgHiRed, color.Bold)
	}
	_, _ = fmt.Fprintf(writer.out, "%s %s\n", paint.Sprint(marker), notification.Message)
}

// Recorder keeps every notification. Used by tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements [Sink].
func (recorder *Recorder) Notify(notification Notification) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.items = append(recorder.items, notification)
}

// All returns a copy of the recorded notifications.
func (recorder *Recorder) All() []Notification {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Notification(nil), recorder.items...)
}

// Keys returns the message keys in order.
func (recorder *Recorder) Keys() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	keys := make([]string, len(recorder.items))
	for i, item := range recorder.items {
		keys[i] = item.Key
	}
	return keys
}

// Last returns the newest notification, if any.
func (recorder *Recorder) Last() (Notification, bool) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.items) == 0 {
		return Notification{}, false
	}
	return recorder.items[len(recorder.items)-1], true
}
