package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionOutput(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf, true)
	if got := buf.String(); got != version+"\n" {
		t.Errorf("short version = %q, want %q", got, version+"\n")
	}

	buf.Reset()
	cmd := versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"snakearena " + version, "arena.json, arena.msgpack"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}
