// Package errors adds slog annotations and source locations to errors while staying compatible with the
// standard library errors package.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	file  string
	line  int
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

func (e *annotatedError) source() string {
	if e.file == "" {
		return ""
	}
	return filepath.Base(e.file) + ":" + strconv.Itoa(e.line)
}

const (
	// runtime.Caller skip that points at the code calling New or Wrap.
	callerOfConstructor = 2
	// Deep enough to reach the panicking frame from a deferred recover.
	maxPanicFrames = 32
)

// NewSentinel creates a comparable error without source location, meant for package level variables.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// New creates an error annotated with attrs and the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, nil, attrs, callerOfConstructor)
}

// Wrap annotates err with context message msg and attrs. The error message becomes "msg: err".
// Wrap returns nil when err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return newAnnotated(msg, err, attrs, callerOfConstructor)
}

func newAnnotated(msg string, cause error, attrs []slog.Attr, skip int) *annotatedError {
	e := &annotatedError{msg: msg, cause: cause, attrs: attrs, file: "", line: 0}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.file = file
		e.line = line
	}
	return e
}

// DecoratePanic converts a recovered panic value into an error pointing at the panic site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	e := &annotatedError{msg: fmt.Sprintf("panic: %v", recovered), cause: nil, attrs: nil, file: "", line: 0}
	if err, ok := recovered.(error); ok {
		e.msg = "panic"
		e.cause = err
	}

	pcs := make([]uintptr, maxPanicFrames)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			e.file = frame.File
			e.line = frame.Line
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	return e
}

// SlogError returns an slog attribute group describing err: its message, the annotations collected from the
// whole error tree and the source location of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		source      string
	)
	walk(err, func(ae *annotatedError) {
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		if s := ae.source(); s != "" {
			source = s
		}
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// walk visits the annotated errors of the tree depth first, outermost first.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // walking the chain manually.
		visit(ae)
	}
	switch u := err.(type) { //nolint:errorlint // walking the chain manually.
	case interface{ Unwrap() []error }:
		for _, child := range u.Unwrap() {
			walk(child, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
