package gate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		input    string
		approved bool
		feedback string
	}{
		{"y\n", true, ""},
		{"YES\n", true, ""},
		{"  y  \n", true, ""},
		{"n\n", false, "n"},
		{"add a section on ethics\n", false, "add a section on ethics"},
		{"y", true, ""},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		g := &Gate{In: strings.NewReader(tt.input), Out: &out}
		d, err := g.Ask(context.Background(), "outline", "Review the outline")
		if err != nil {
			t.Fatalf("%q: %v", tt.input, err)
		}
		if d.Approved != tt.approved || d.Feedback != tt.feedback {
			t.Fatalf("%q: got %+v", tt.input, d)
		}
		if !strings.Contains(out.String(), "Review the outline") {
			t.Fatalf("%q: description not shown: %q", tt.input, out.String())
		}
	}
}

func TestAsk_Auto(t *testing.T) {
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader(""), Out: &out, Auto: true}
	d, err := g.Ask(context.Background(), "outline", "")
	if err != nil || !d.Approved {
		t.Fatalf("got %+v, %v", d, err)
	}
	if !strings.Contains(out.String(), "auto-approved") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestAsk_EmptyInput(t *testing.T) {
	g := &Gate{In: strings.NewReader(""), Out: io.Discard}
	if _, err := g.Ask(context.Background(), "outline", ""); err == nil {
		t.Fatal("expected error on closed input")
	}
}

func TestAsk_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := &Gate{In: pr, Out: io.Discard}
	_, err := g.Ask(ctx, "outline", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
