package isocert

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title taken from metadata.
	Title string

	// ContentHTML is the main content with navigation, footers and
	// sidebars removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
