package pipeline

import (
	"context"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"body { color: red; }", "body { color: red; }"},
		{"</style>", `<\/style>`},
		{"</a></b>", `<\/a><\/b>`},
	}

	for _, tt := range tests {
		if got := sanitizeCSS(tt.input); got != tt.want {
			t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHeadStyleInjector_InjectStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		css  string
		want string
	}{
		{
			name: "blank css",
			doc:  "<html><head></head><body>x</body></html>",
			css:  "  \n",
			want: "<html><head></head><body>x</body></html>",
		},
		{
			name: "end of head",
			doc:  "<html><head><title>B</title></head><body>x</body></html>",
			css:  "p{margin:0}",
			want: "<html><head><title>B</title><style>p{margin:0}</style></head><body>x</body></html>",
		},
		{
			name: "uppercase head",
			doc:  "<HTML><HEAD></HEAD><BODY>x</BODY></HTML>",
			css:  "p{}",
			want: "<HTML><HEAD><style>p{}</style></HEAD><BODY>x</BODY></HTML>",
		},
		{
			name: "head created",
			doc:  `<html lang="fr"><body class="book">x</body></html>`,
			css:  "p{margin:0}",
			want: `<html lang="fr"><head><style>p{margin:0}</style></head><body class="book">x</body></html>`,
		},
		{
			name: "bare fragment",
			doc:  "<p>x</p>",
			css:  "p{margin:0}",
			want: "<style>p{margin:0}</style><p>x</p>",
		},
		{
			name: "closing tag in css escaped",
			doc:  "<head></head>",
			css:  "</style><script>",
			want: `<head><style><\/style><script></style></head>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := (HeadStyleInjector{}).InjectStyle(context.Background(), tt.doc, tt.css); got != tt.want {
				t.Errorf("InjectStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeadStyleInjector_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := "<html><head></head><body>x</body></html>"
	if got := (HeadStyleInjector{}).InjectStyle(ctx, doc, "p{}"); got != doc {
		t.Errorf("InjectStyle() with cancelled context = %q, want unchanged", got)
	}
}
