package pipeline

import (
	"context"
	"testing"
)

func TestSourcePreprocessor_Preprocess(t *testing.T) {
	t.Parallel()

	mark := func(s string) string { return MarkStartPlaceholder + s + MarkEndPlaceholder }

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"bom", "\uFEFF# Title", "# Title"},
		{"blank lines compressed", "a\n\n\n\n\nb", "a\n\nb"},
		{"highlight", "a ==b== c", "a " + mark("b") + " c"},
		{"two highlights", "==a== and ==b==", mark("a") + " and " + mark("b")},
		{"highlight stops at line end", "a ==b\nc== d", "a ==b\nc== d"},
		{"front matter", "---\ntitle: One\norder: 1\n---\n# One\n", "# One\n"},
		{"front matter dots", "---\nid: x\n...\nBody", "Body"},
		{"front matter crlf", "---\r\nid: x\r\n---\r\nBody", "Body"},
		{"rule mid-file kept", "Intro\n\n---\n\nMore", "Intro\n\n---\n\nMore"},
		{"unclosed front matter kept", "---\nid: x\nBody", "---\nid: x\nBody"},
		{"unchanged", "plain text", "plain text"},
	}

	p := &SourcePreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.Preprocess(context.Background(), tt.input); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourcePreprocessor_KeepFrontMatter(t *testing.T) {
	t.Parallel()

	in := "---\ntitle: One\n---\nBody"
	if got := (&SourcePreprocessor{KeepFrontMatter: true}).Preprocess(context.Background(), in); got != in {
		t.Errorf("Preprocess() = %q, want front matter kept", got)
	}
}

func TestSourcePreprocessor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := "a\r\n==b=="
	if got := (&SourcePreprocessor{}).Preprocess(ctx, in); got != in {
		t.Errorf("Preprocess() = %q, want unchanged", got)
	}
}

func TestConvertMarkPlaceholders(t *testing.T) {
	t.Parallel()

	in := "<p>" + MarkStartPlaceholder + "x" + MarkEndPlaceholder + "</p>"
	if got := ConvertMarkPlaceholders(in); got != "<p><mark>x</mark></p>" {
		t.Errorf("ConvertMarkPlaceholders() = %q", got)
	}
}
