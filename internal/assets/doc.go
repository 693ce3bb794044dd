// Package assets provides the stylesheets and the HTML document template used
// to assemble books.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and the book template (go:embed)
//	    ├── FilesystemLoader  - a custom directory on disk
//	    └── AssetResolver     - custom first, embedded fallback
//
// A project refers to built-in styles by name ("default", "plain"). Pointing
// the tool at a custom asset directory lets authors override either a style or
// the book template while keeping the rest of the defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// # Security
//
// Asset names may not contain separators or dots. FilesystemLoader reads
// through os.Root, which also refuses symlinks pointing outside basePath.
package assets
