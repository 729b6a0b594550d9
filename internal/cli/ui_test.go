package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := printer{w: &buf}

	p.success("Exported %d repertoire(s)", 2)
	p.fail("Export failed")
	p.warn("backend is %s", "redis")
	p.info("Cache is empty")
	p.detail("Directory: %s", "/tmp/x")
	p.file("out/sicilian.pgn")
	p.next("Browse the tree", "repertree browse sicilian.yaml")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{
		"Exported 2 repertoire(s)",
		"Export failed",
		"backend is redis",
		"Cache is empty",
		"Directory: /tmp/x",
		"out/sicilian.pgn",
		"repertree browse sicilian.yaml",
	} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestPrinterStats(t *testing.T) {
	tests := []struct {
		name           string
		transpositions int
		cached         bool
		want           []string
		absent         string
	}{
		{"fresh", 0, false, []string{"7 positions", "fresh"}, "transpositions"},
		{"cached", 1, true, []string{"7 positions", "1 transpositions", "cached"}, "fresh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printer{w: &buf}.stats(7, tt.transpositions, tt.cached)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("stats missing %q: %q", w, out)
				}
			}
			if strings.Contains(out, tt.absent) {
				t.Errorf("stats should not contain %q: %q", tt.absent, out)
			}
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := printer{w: &buf}.spin(context.Background(), "Exporting...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Exporting...") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.HasSuffix(out, strings.Repeat(" ", len("Exporting...")+4)+"\r") {
		t.Errorf("line not cleared on stop: %q", out)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := printer{w: &buf}.spin(ctx, "Rendering SVG...")
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
	s.StopWithError("Rendering failed")
	if !strings.Contains(buf.String(), "Rendering failed") {
		t.Errorf("missing failure line: %q", buf.String())
	}
}
