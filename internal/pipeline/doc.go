// Package pipeline implements the chapter-to-book HTML pipeline.
//
// Stages, in the order the root package runs them:
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Markdown to HTML fragment conversion via Goldmark
//   - Id scoping per chapter, then relinking of same-document anchors once
//     every chapter is scoped
//   - Relative path rewriting so assets resolve from any build location
//   - Book assembly: chapter fragments into one HTML document
//   - CSS injection into the assembled document
//
// Text substitutions run between conversion and assembly and live in the root
// md2ebook package, as do the output builders (HTML file, ebook-convert, PDF).
package pipeline
