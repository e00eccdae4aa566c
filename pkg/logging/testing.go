package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger records JSON log events at every level for assertions.
type TestLogger struct {
	Logger *zerolog.Logger
	buf    bytes.Buffer
}

// NewTestLogger returns a TestLogger. The global level is lowered to
// trace for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	tl := &TestLogger{}
	logger := zerolog.New(&tl.buf).Level(zerolog.TraceLevel)
	tl.Logger = &logger
	return tl
}

// Context returns ctx carrying the recording logger.
func (tl *TestLogger) Context(ctx context.Context) context.Context {
	return WithLogger(ctx, tl.Logger)
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.buf.String()
}

// Lines returns one entry per logged event.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AssertContains fails t unless some event contains substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Output(), substr) {
		t.Errorf("log does not contain %q\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails t if any event contains substr.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if strings.Contains(tl.Output(), substr) {
		t.Errorf("log unexpectedly contains %q\n%s", substr, tl.Output())
	}
}
