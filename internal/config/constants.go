package config

// Version is the current simplac version.
var Version = "0.1.0"

// SourceFileExt is the canonical Simpla source extension.
const SourceFileExt = ".simpla"

// CompiledFileExt is the default extension `translate` gives its output
// file when the user doesn't name one explicitly (`compile` uses ".c").
const CompiledFileExt = ".simplac"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".simpla"}

// TrimSourceExt removes the recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with a recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// DefaultOutputName derives the default compiled-output filename for a
// source path: its stem plus CompiledFileExt.
func DefaultOutputName(sourcePath string) string {
	return TrimSourceExt(sourcePath) + CompiledFileExt
}
