package catalog

// FileGateway abstracts file-system access so the engines can be tested
// against an in-memory implementation.
type FileGateway interface {
	// FolderExists reports whether path is an existing directory.
	FolderExists(path string) bool

	// FileExists reports whether path is an existing regular file.
	FileExists(path string) bool

	// FileNames lists the names of the regular files directly inside dir.
	FileNames(dir string) ([]string, error)

	// SubDirectories returns the full paths of dir's immediate subdirectories.
	SubDirectories(dir string) ([]string, error)

	// RecursiveSubDirectories returns the full paths of every directory
	// below dir.
	RecursiveSubDirectories(dir string) ([]string, error)

	// FileBytes reads a file's entire content.
	FileBytes(path string) ([]byte, error)

	// FileProperties returns live size and timestamps for a file.
	FileProperties(path string) (FileProperties, error)

	// CopyImage copies the file at src to dst, creating parent directories.
	// The source is left in place.
	CopyImage(src, dst string) error

	// MoveImage moves the file at src to dst, creating parent directories.
	MoveImage(src, dst string) error

	// DeleteFile removes the named file from dir.
	DeleteFile(dir, name string) error
}

// HashCalculator produces a deterministic hex digest of file content.
type HashCalculator interface {
	CalculateHash(data []byte) string
}

// ImageProperties describes a decoded image.
type ImageProperties struct {
	Width    int
	Height   int
	Rotation int    // degrees clockwise the stored pixels must be rotated for display
	Format   string // "jpeg", "png" or "gif"
}

// ImageProcessor decodes images and renders thumbnails. Implementations
// re-encode thumbnails in a format matching the source.
type ImageProcessor interface {
	// Properties decodes enough of data to report dimensions, format and
	// EXIF rotation.
	Properties(data []byte) (ImageProperties, error)

	// Thumbnail renders data scaled to fit the maxWidth x maxHeight box
	// preserving aspect ratio, and returns the encoded bytes with the
	// rendered dimensions.
	Thumbnail(data []byte, props ImageProperties, maxWidth, maxHeight int) ([]byte, int, int, error)
}
