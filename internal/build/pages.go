package build

// Page is one output document. Path is slash-separated and extension-less;
// the page is written to <build>/<Path>.html.
type Page struct {
	Path    string
	Content string
}

// Registry collects pages in registration order until the write phase.
// Duplicate paths are kept; the later page overwrites the earlier one on
// disk.
type Registry struct {
	pages []Page
}

// NewRegistry creates an empty page registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a page.
func (r *Registry) Add(path, content string) {
	r.pages = append(r.pages, Page{Path: path, Content: content})
}

// Index adds the site index page.
func (r *Registry) Index(content string) {
	r.Add("index", content)
}

// NotFound adds the page served for unknown paths.
func (r *Registry) NotFound(content string) {
	r.Add("404", content)
}

// Pages returns a copy of the registered pages in order.
func (r *Registry) Pages() []Page {
	out := make([]Page, len(r.pages))
	copy(out, r.pages)
	return out
}

// Len returns the number of registered pages.
func (r *Registry) Len() int {
	return len(r.pages)
}
