package markdown

import (
	"errors"
	"strings"
	"testing"
)

type stubRenderer struct {
	out   string
	err   error
	panic bool
}

func (s stubRenderer) Render(string) (string, error) {
	if s.panic {
		panic("boom")
	}
	return s.out, s.err
}

func withRenderer(t *testing.T, width int, r renderer) {
	t.Helper()
	rendererMu.Lock()
	prev, hadPrev := renderers[width]
	renderers[width] = r
	rendererMu.Unlock()

	t.Cleanup(func() {
		rendererMu.Lock()
		defer rendererMu.Unlock()
		if hadPrev {
			renderers[width] = prev
		} else {
			delete(renderers, width)
		}
	})
}

func TestRenderRecoversFromRendererPanic(t *testing.T) {
	withRenderer(t, 20, stubRenderer{panic: true})

	if out := Render(20, 0, "hello\n"); out != "hello" {
		t.Fatalf("expected fallback to source text, got %q", out)
	}
}

func TestRenderFallsBackOnError(t *testing.T) {
	withRenderer(t, 21, stubRenderer{err: errors.New("bad")})

	if out := Render(21, 0, "- fixed crash"); out != "- fixed crash" {
		t.Fatalf("expected fallback to source text, got %q", out)
	}
}

func TestRenderTrimsAndIndents(t *testing.T) {
	withRenderer(t, 18, stubRenderer{out: "\n  fixed crash   \n\n  faster sync\n\n"})

	out := Render(20, 2, "ignored")

	if out != "    fixed crash\n\n    faster sync" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderBlank(t *testing.T) {
	if out := Render(40, 0, " \r\n"); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestRenderWithGlamour(t *testing.T) {
	out := Render(40, 0, "# Notes\n\n* fixed crash\n* faster sync\n")

	if !strings.Contains(out, "fixed crash") || !strings.Contains(out, "faster sync") {
		t.Fatalf("expected list items in output, got %q", out)
	}
}
