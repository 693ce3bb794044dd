package assets

// AssetResolver tries a custom asset directory first and falls back to the
// built-in assets when a name is not found there. Invalid names and read
// errors are returned without falling back.
type AssetResolver struct {
	chain []AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses the
// built-in assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.chain = append(r.chain, custom)
	}
	r.chain = append(r.chain, NewEmbeddedLoader())
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (r *AssetResolver) first(load func(AssetLoader) (string, error)) (content string, err error) {
	for _, l := range r.chain {
		if content, err = load(l); err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return "", err
}

// HasCustomLoader reports whether a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.chain) > 1
}

var _ AssetLoader = (*AssetResolver)(nil)
