package commands

import (
	"strings"
	"testing"

	"github.com/agiangrant/anchorui"
)

const testDoc = `
[[node]]
name = "ok"
kind = "button"
text = "OK"
font = "basic"
anchor = "center"
size = [100, 50]

[[node]]
name = "input"
kind = "textedit"
font = "basic"
size = [150, 0]
`

func newTestEngine(t *testing.T) (*anchorui.Engine, *anchorui.Document) {
	t.Helper()
	doc, err := anchorui.ParseDocument(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	engine, err := anchorui.NewEngine(defaultProjectConfig(200, 200), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Build(doc); err != nil {
		t.Fatalf("Build: %v", err)
	}
	engine.Load()
	return engine, doc
}

func TestParseScript(t *testing.T) {
	steps, err := parseScript(strings.NewReader(`
# press the button
down 10 20.5
MOVE 11 21
char é
text hello world
backspace
frame
frame 0.5
`))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}

	want := []step{
		{line: 3, op: "down", x: 10, y: 20.5},
		{line: 4, op: "move", x: 11, y: 21},
		{line: 5, op: "char", text: "é"},
		{line: 6, op: "text", text: "hello world"},
		{line: 7, op: "backspace"},
		{line: 8, op: "frame"},
		{line: 9, op: "frame", dt: 0.5},
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d: %+v", len(steps), len(want), steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, steps[i], want[i])
		}
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"unknown command", "jump 1 2\n"},
		{"missing coordinate", "down 1\n"},
		{"bad coordinate", "up a b\n"},
		{"empty char", "char\n"},
		{"negative frame", "frame -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseScript(strings.NewReader(tt.script)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReplay(t *testing.T) {
	engine, doc := newTestEngine(t)
	steps, err := parseScript(strings.NewReader("down 100 100\nup 100 100\ntouch 5 5\nrelease 5 5\ntext hi\nframe 0.016\nbackspace\n"))
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	replay(&sb, engine, doc, steps)

	want := []string{
		"ok: press",
		"ok: focus",
		"pointer_down (100,100) consumed=true",
		"ok: release",
		"pointer_up (100,100) consumed=true",
		"ok: blur",
		"input: focus",
		"pointer_down (5,5) consumed=true",
		"pointer_up (5,5) consumed=true",
		`input: text "h"`,
		"char 'h' consumed=true",
		`input: text "hi"`,
		"char 'i' consumed=true",
		`input: text "h"`,
		`char '\b' consumed=true`,
		"focus: input",
	}
	got := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("replay output:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestPrintLayout(t *testing.T) {
	engine, doc := newTestEngine(t)
	engine.Frame(0)

	var sb strings.Builder
	if err := printLayout(&sb, engine, doc); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), sb.String())
	}
	if got := strings.Join(strings.Fields(lines[0]), " "); got != "NAME KIND X Y WIDTH HEIGHT" {
		t.Errorf("header = %q", got)
	}
	if got := strings.Join(strings.Fields(lines[1]), " "); got != "ok button 50 75 100 50" {
		t.Errorf("row = %q", got)
	}
	if got := strings.Join(strings.Fields(lines[2]), " "); got != "input textedit 0 0 150 13" {
		t.Errorf("row = %q", got)
	}
}
