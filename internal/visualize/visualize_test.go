package visualize

import (
	"bytes"
	"strings"
	"testing"

	"ccforest/internal/track"
)

func TestRenderProducesWellFormedSVGWithForkAndJoinLanes(t *testing.T) {
	events := []track.Event{
		{Kind: track.KindFork, BranchID: "*", ForkID: "*:0", Condition: "defined(A)"},
		{Kind: track.KindFork, BranchID: "*", ForkID: "*:1", Condition: "!defined(A)"},
		{Kind: track.KindLogicLinePursue, BranchID: "*:0", Content: "int x;"},
		{Kind: track.KindJoin, FirstID: "*:0", SecondID: "*:1", IntoID: "*:0+"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, events); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("expected output to start with an <svg> tag, got %q", out[:min(20, len(out))])
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Errorf("expected output to end with </svg>")
	}
	for _, want := range []string{"*", "*:0", "*:1", "*:0+"} {
		if !strings.Contains(out, ">"+want+"<") {
			t.Errorf("expected a lane label for %q in output", want)
		}
	}
}

func TestRenderEmptyEventStreamStillProducesValidSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("expected an <svg> root element even for an empty stream")
	}
}
