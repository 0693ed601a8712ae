package track

import (
	"bytes"
	"testing"
)

func TestRecorderEmitsNDJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	rec.Fork("*", "*:0", "A")
	rec.LogicLinePursue("*:0", "int x;")
	rec.Activate("*:1")
	rec.Join("*:0", "*:1", "*:0+")
	rec.Deactivate("*:0")

	if err := rec.Err(); err != nil {
		t.Fatalf("unexpected recorder error: %v", err)
	}

	events, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	if events[0].Kind != KindFork || events[0].Condition != "A" {
		t.Errorf("fork event malformed: %+v", events[0])
	}
	if events[1].Kind != KindLogicLinePursue || events[1].Content != "int x;" {
		t.Errorf("logic_line_pursue event malformed: %+v", events[1])
	}
	if events[3].Kind != KindJoin || events[3].FirstID != "*:0" || events[3].SecondID != "*:1" {
		t.Errorf("join event malformed: %+v", events[3])
	}
}

func TestUnusedFieldsAreOmittedFromOutput(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	rec.Activate("*")

	if bytes.Contains(buf.Bytes(), []byte("fork_id")) {
		t.Errorf("activate event should not carry fork_id: %s", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("content")) {
		t.Errorf("activate event should not carry content: %s", buf.String())
	}
}
