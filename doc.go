// Package md2ebook turns a project of markdown chapters into ebooks.
//
// # Quick Start
//
// Load a project document, then build its outputs:
//
//	project, err := md2ebook.LoadProjectFile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	maker, err := md2ebook.NewMaker(md2ebook.WithTimeout(5 * time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer maker.Close()
//
//	if err := maker.Make(ctx, project, ""); err != nil {
//	    log.Fatal(err)
//	}
//
// An empty output name builds every output; a name builds that output only.
//
// # Project Document
//
// Projects are YAML, or JSON with comments. Book metadata sits at the root:
//
//	title: The Duck Tales
//	authors: Carl Barks
//	language: en
//	pubdate: auto
//	stylesheet: default
//	ebookconvert_params: ["--chapter-mark=pagebreak"]
//	chapters:
//	  - src: 01-money-bin.md
//	  - src: 02-draft.md
//	    publish: false
//	substitutions:
//	  - {old: "Dagobert", new: "Scrooge"}
//	  - {pattern: "(?P<n>\\d+) coins", replace_with: "${n} dimes"}
//	outputs:
//	  - path: build/ducks.epub
//	  - {name: preview, path: build/ducks.html, force_publish: true}
//	  - {name: print, path: build/ducks.pdf, type: pdf}
//
// Outputs ending in .html or .htm are written directly; any other extension
// is produced by Calibre's ebook-convert unless type says otherwise. Output
// stylesheets override the project stylesheet, and project params come before
// output params.
//
// # Build Pipeline
//
//  1. Select publishable chapters (all of them with force_publish)
//  2. Preprocess and render each chapter with Goldmark
//  3. Apply substitutions, in order, to the rendered chapter
//  4. Assemble the book document and inject the stylesheet
//  5. Write HTML, run ebook-convert, or print with headless Chrome
package md2ebook
