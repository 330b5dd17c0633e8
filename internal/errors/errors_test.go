package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "protocol error",
			code:    "E102",
			wantMsg: "Unknown event",
			wantCat: CategoryProtocol,
		},
		{
			name:    "config error",
			code:    "E201",
			wantMsg: "Invalid configuration value",
			wantCat: CategoryConfig,
		},
		{
			name:    "client error",
			code:    "E301",
			wantMsg: "Could not connect to server",
			wantCat: CategoryClient,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("E201").WithDetail("world.food_count must be positive")
	want := "E201: Invalid configuration value: world.food_count must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	plain := Newf(CategoryClient, "dial %s", "ws://x")
	if plain.Error() != "dial ws://x" {
		t.Errorf("Error() = %q", plain.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	err := New("E202").Wrap(io.ErrUnexpectedEOF)

	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the wrapped cause")
	}
	if !stderrors.Is(err, New("E202")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E201")) {
		t.Error("errors.Is should not match a different code")
	}

	outer := fmt.Errorf("loading: %w", err)
	var ae *ArenaError
	if !stderrors.As(outer, &ae) {
		t.Fatal("errors.As should find the ArenaError")
	}
	if Code(outer) != "E202" {
		t.Errorf("Code() = %q, want E202", Code(outer))
	}
	if Code(io.EOF) != "" {
		t.Errorf("Code(io.EOF) = %q, want empty", Code(io.EOF))
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E101") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E103")
	if FromError(orig, "E101") != orig {
		t.Error("FromError should pass an ArenaError through")
	}

	wrapped := FromError(io.EOF, "E101")
	if wrapped.Code != "E101" || wrapped.Wrapped != io.EOF {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E301").
		Wrap(io.EOF).
		WithSuggestion("is `snakearena serve` running?").
		Format()

	for _, want := range []string{
		"ERROR E301: Could not connect to server",
		"The websocket dial to the game server failed.",
		"cause: EOF",
		"Hint: is `snakearena serve` running?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, io.EOF)
	if !strings.Contains(buf.String(), "ERROR: EOF") {
		t.Errorf("Print(plain) = %q", buf.String())
	}
}

func TestRegistryCodesUnique(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("registry is empty")
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
