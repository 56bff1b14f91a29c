package port

// Loader extracts plain text from a file. Implementations range from
// single-format extractors to an extension-dispatching registry.
type Loader interface {
	// Load reads the file at path and returns its text content.
	Load(path string) (string, error)
}
