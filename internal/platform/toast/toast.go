// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package toast carries transient user-facing notifications.

Every failure a page or card catches ends here rather than bubbling up: the
controller returns the error to its caller and also reports a [Toast] to the
injected [Notifier], which the CLI prints to stderr and tests record.
*/
package toast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// # Variants

// Variant selects how a toast is rendered.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is one transient notification.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

// Info builds a neutral toast.
func Info(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: VariantDefault}
}

// Error builds a destructive toast.
func Error(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: VariantDestructive}
}

// String renders the toast on one line.
func (t Toast) String() string {
	if t.Description == "" {
		return t.Title
	}
	return t.Title + ": " + t.Description
}

// # Notifiers

// Notifier receives toasts.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(ctx context.Context, t Toast)

// Notify implements [Notifier].
func (f NotifierFunc) Notify(ctx context.Context, t Toast) { f(ctx, t) }

// Discard drops every toast.
var Discard Notifier = NotifierFunc(func(context.Context, Toast) {})

// OrDiscard returns n, or [Discard] when n is nil.
func OrDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard
	}
	return n
}

// Writer prints toasts to w, prefixing destructive ones with "!".
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter constructs a [Writer].
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Notify implements [Notifier].
func (w *Writer) Notify(ctx context.Context, t Toast) {
	w.mu.Lock()
	defer w.mu.Unlock()

	marker := "*"
	if t.Variant == VariantDestructive {
		marker = "!"
	}
	_, _ = fmt.Fprintf(w.out, "%s %s\n", marker, t)
}

// Logged mirrors every toast to logger before forwarding it to next.
func Logged(logger *slog.Logger, next Notifier) Notifier {
	next = OrDiscard(next)
	return NotifierFunc(func(ctx context.Context, t Toast) {
		logger.DebugContext(ctx, "toast_shown",
			slog.String("title", t.Title),
			slog.String("variant", string(t.Variant)),
		)
		next.Notify(ctx, t)
	})
}

// Recorder keeps every toast in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify implements [Notifier].
func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// All returns a copy of the recorded toasts.
func (r *Recorder) All() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast and whether there was one.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// Reset forgets every recorded toast.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}
