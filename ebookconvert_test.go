package md2ebook

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestMetadataFlags
// ---------------------------------------------------------------------------

func TestMetadataFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		book *Book
		want []string
	}{
		{
			name: "title only",
			book: &Book{Title: "Duck Tales"},
			want: []string{`--title="Duck Tales"`},
		},
		{
			name: "underscores become hyphens",
			book: &Book{Title: "T", AuthorSort: "Barks, Carl", SeriesIndex: "2", BookProducer: "Studio"},
			want: []string{
				`--author-sort="Barks, Carl"`,
				`--book-producer="Studio"`,
				`--series-index="2"`,
				`--title="T"`,
			},
		},
		{
			name: "blank values skipped",
			book: &Book{Title: "T", Authors: "   ", Tags: ""},
			want: []string{`--title="T"`},
		},
		{
			name: "allow-list order",
			book: &Book{
				Title: "T", Authors: "A & B", Comments: "c", Cover: "cover.png", ISBN: "978",
				Language: "fr", Pubdate: "2026-03-07", Publisher: "P", Rating: "4",
				Series: "S", Tags: "x, y",
			},
			want: []string{
				`--authors="A & B"`,
				`--comments="c"`,
				`--cover="cover.png"`,
				`--isbn="978"`,
				`--language="fr"`,
				`--pubdate="2026-03-07"`,
				`--publisher="P"`,
				`--rating="4"`,
				`--series="S"`,
				`--tags="x, y"`,
				`--title="T"`,
			},
		},
		{
			name: "values passed verbatim",
			book: &Book{Title: `Say "hi"`},
			want: []string{`--title="Say "hi""`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MetadataFlags(tt.book)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MetadataFlags() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestMetadataFlags_AuthorKeys(t *testing.T) {
	t.Parallel()

	doc := "title: T\nauthor: Ignored Name\nauthor_sort: Barks, Carl\nauthors: Carl Barks\n"
	p, err := LoadProject([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}

	got := MetadataFlags(p.Book)
	want := []string{`--author-sort="Barks, Carl"`, `--authors="Carl Barks"`, `--title="T"`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MetadataFlags() =\n%q\nwant\n%q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestConvertArgs
// ---------------------------------------------------------------------------

func TestConvertArgs(t *testing.T) {
	t.Parallel()

	b := &Book{Title: "T", Language: "en"}
	got := ConvertArgs("/tmp/in.html", "/out/book.epub", b, []string{"--a", "--b=1"})
	want := []string{"/tmp/in.html", "/out/book.epub", `--language="en"`, `--title="T"`, "--a", "--b=1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertArgs() =\n%q\nwant\n%q", got, want)
	}

	if got := ConvertArgs("in", "out", &Book{}, nil); !reflect.DeepEqual(got, []string{"in", "out"}) {
		t.Errorf("ConvertArgs() without metadata = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestConversionError
// ---------------------------------------------------------------------------

func TestConversionError(t *testing.T) {
	t.Parallel()

	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expired.Done()

	tests := []struct {
		name        string
		ctx         context.Context
		stderr      string
		err         error
		wantIs      []error
		wantContain string
	}{
		{
			name:        "binary missing",
			ctx:         context.Background(),
			err:         &exec.Error{Name: "ebook-convert", Err: exec.ErrNotFound},
			wantIs:      []error{ErrConverterNotFound, exec.ErrNotFound},
			wantContain: "ebook-convert",
		},
		{
			name:   "deadline",
			ctx:    expired,
			err:    errors.New("signal: killed"),
			wantIs: []error{ErrConversionFailed, context.DeadlineExceeded},
		},
		{
			name:        "stderr attached",
			ctx:         context.Background(),
			stderr:      "  Traceback: bad input\n",
			err:         errors.New("exit status 1"),
			wantIs:      []error{ErrConversionFailed},
			wantContain: "exit status 1: Traceback: bad input",
		},
		{
			name:        "no stderr",
			ctx:         context.Background(),
			err:         errors.New("exit status 1"),
			wantIs:      []error{ErrConversionFailed},
			wantContain: "ebook conversion failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := conversionError(tt.ctx, "ebook-convert", tt.stderr, tt.err)
			for _, target := range tt.wantIs {
				if !errors.Is(err, target) {
					t.Errorf("error %v does not match %v", err, target)
				}
			}
			if tt.wantContain != "" && !strings.Contains(err.Error(), tt.wantContain) {
				t.Errorf("error %q does not contain %q", err, tt.wantContain)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExecRunner
// ---------------------------------------------------------------------------

func TestExecRunner_NotFound(t *testing.T) {
	t.Parallel()

	_, _, err := ExecRunner{}.Run(context.Background(), "md2ebook-no-such-binary-xyz")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Run() error = %v, want exec.ErrNotFound", err)
	}
}
