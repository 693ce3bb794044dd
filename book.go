package md2ebook

import "strings"

// Chapter is one markdown source of the book.
type Chapter struct {
	Src     string
	Publish bool
}

// Book holds the publication metadata and the chapters in publication order.
// Metadata values are kept as text; list values arrive joined with ", ".
type Book struct {
	Title        string
	Authors      string
	AuthorSort   string
	BookProducer string
	Comments     string
	Cover        string
	ISBN         string
	Language     string
	Pubdate      string
	Publisher    string
	Rating       string
	Series       string
	SeriesIndex  string
	Tags         string
	Chapters     []Chapter
}

// MetadataField is one allow-listed book attribute.
type MetadataField struct {
	Key   string
	Value string
}

// Metadata keys, in the order they are passed to converters.
const (
	MetaAuthorSort   = "author_sort"
	MetaAuthors      = "authors"
	MetaBookProducer = "book_producer"
	MetaComments     = "comments"
	MetaCover        = "cover"
	MetaISBN         = "isbn"
	MetaLanguage     = "language"
	MetaPubdate      = "pubdate"
	MetaPublisher    = "publisher"
	MetaRating       = "rating"
	MetaSeries       = "series"
	MetaSeriesIndex  = "series_index"
	MetaTags         = "tags"
	MetaTitle        = "title"
)

// Metadata returns the allow-listed attributes in converter order, blank ones
// included. Attributes outside the allow-list do not exist on Book.
func (b *Book) Metadata() []MetadataField {
	return []MetadataField{
		{MetaAuthorSort, b.AuthorSort},
		{MetaAuthors, b.Authors},
		{MetaBookProducer, b.BookProducer},
		{MetaComments, b.Comments},
		{MetaCover, b.Cover},
		{MetaISBN, b.ISBN},
		{MetaLanguage, b.Language},
		{MetaPubdate, b.Pubdate},
		{MetaPublisher, b.Publisher},
		{MetaRating, b.Rating},
		{MetaSeries, b.Series},
		{MetaSeriesIndex, b.SeriesIndex},
		{MetaTags, b.Tags},
		{MetaTitle, b.Title},
	}
}

// Select returns the chapters to publish, in order. With force set every
// chapter is returned regardless of its Publish flag. The Book is not modified.
func (b *Book) Select(force bool) []Chapter {
	selected := make([]Chapter, 0, len(b.Chapters))
	for _, ch := range b.Chapters {
		if force || ch.Publish {
			selected = append(selected, ch)
		}
	}
	return selected
}

// AuthorList splits Authors on "&", the separator ebook-convert uses.
func (b *Book) AuthorList() []string {
	var authors []string
	for _, a := range strings.Split(b.Authors, "&") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
