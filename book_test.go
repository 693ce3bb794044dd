package md2ebook

import (
	"reflect"
	"testing"
)

func testBook() *Book {
	return &Book{
		Title: "Duck Tales",
		Chapters: []Chapter{
			{Src: "01.md", Publish: true},
			{Src: "02-draft.md", Publish: false},
			{Src: "03.md", Publish: true},
		},
	}
}

func chapterSrcs(chapters []Chapter) []string {
	srcs := make([]string, len(chapters))
	for i, ch := range chapters {
		srcs[i] = ch.Src
	}
	return srcs
}

// ---------------------------------------------------------------------------
// TestBook_Select
// ---------------------------------------------------------------------------

func TestBook_Select(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		force bool
		want  []string
	}{
		{"published only", false, []string{"01.md", "03.md"}},
		{"forced", true, []string{"01.md", "02-draft.md", "03.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			book := testBook()
			got := chapterSrcs(book.Select(tt.force))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(%v) = %v, want %v", tt.force, got, tt.want)
			}
		})
	}
}

func TestBook_Select_DoesNotMutate(t *testing.T) {
	t.Parallel()

	book := testBook()
	selected := book.Select(true)
	selected[0].Src = "changed.md"
	selected[1].Publish = true

	if book.Chapters[0].Src != "01.md" || book.Chapters[1].Publish {
		t.Errorf("Select() result aliases book chapters: %+v", book.Chapters)
	}
	if got := len(book.Select(false)); got != 2 {
		t.Errorf("forced selection changed later selections: got %d chapters", got)
	}
}

// ---------------------------------------------------------------------------
// TestBook_Metadata
// ---------------------------------------------------------------------------

func TestBook_Metadata(t *testing.T) {
	t.Parallel()

	book := &Book{Title: "T", Authors: "A", SeriesIndex: "2"}
	fields := book.Metadata()

	if len(fields) != 14 {
		t.Fatalf("Metadata() returned %d fields, want 14", len(fields))
	}
	if fields[0].Key != MetaAuthorSort || fields[len(fields)-1].Key != MetaTitle {
		t.Errorf("Metadata() order = %s..%s", fields[0].Key, fields[len(fields)-1].Key)
	}

	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value
	}
	if got[MetaTitle] != "T" || got[MetaAuthors] != "A" || got[MetaSeriesIndex] != "2" || got[MetaISBN] != "" {
		t.Errorf("Metadata() values = %v", got)
	}
}

func TestBook_AuthorList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		authors string
		want    []string
	}{
		{"", nil},
		{"Carl Barks", []string{"Carl Barks"}},
		{"Carl Barks & Don Rosa", []string{"Carl Barks", "Don Rosa"}},
		{" & Don Rosa & ", []string{"Don Rosa"}},
	}

	for _, tt := range tests {
		got := (&Book{Authors: tt.authors}).AuthorList()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AuthorList(%q) = %v, want %v", tt.authors, got, tt.want)
		}
	}
}
