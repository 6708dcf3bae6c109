package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the source files of one compilation unit and resolves spans
// to line/column positions.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> latest id
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 8),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet whose relative paths are rendered against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the directory used for relative path rendering,
// falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores already normalized content and returns a fresh FileID.
// Re-adding a path creates a new ID; the path index points at the newest one.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	normalizedPath := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, strips a BOM and normalizes CRLF before Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddSource(path, content, 0), nil
}

// AddSource normalizes raw bytes (BOM, CRLF) and adds them.
func (fileSet *FileSet) AddSource(path string, content []byte, flags FileFlags) FileID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags)
}

// AddVirtual adds an in-memory file (editor buffer, test input).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.AddSource(name, content, FileVirtual)
}

// Len reports the number of stored files.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// HasFile reports whether id was issued by this set.
func (fileSet *FileSet) HasFile(id FileID) bool {
	return int(id) < len(fileSet.files)
}

// Get returns the file for id. Unknown IDs panic: they can only come from
// another FileSet.
func (fileSet *FileSet) Get(id FileID) *File {
	if !fileSet.HasFile(id) {
		panic(fmt.Sprintf("source: unknown file id %d", id))
	}
	return &fileSet.files[id]
}

// Files returns all files in insertion order.
func (fileSet *FileSet) Files() []File {
	return fileSet.files
}

// GetLatest returns the newest file ID stored for path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into 1-based line/column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Offset converts a 1-based line/column position back to a byte offset,
// clamped to the file length.
func (f *File) Offset(pos LineCol) uint32 {
	size := uint32(len(f.Content)) // #nosec G115 -- file sizes are bounded by Add
	if pos.Line == 0 {
		return 0
	}
	var start uint32
	if pos.Line > 1 {
		if int(pos.Line-2) >= len(f.LineIdx) {
			return size
		}
		start = f.LineIdx[pos.Line-2] + 1
	}
	off := start + pos.Col - 1
	if pos.Col == 0 {
		off = start
	}
	if off > size {
		return size
	}
	return off
}

// GetLine returns the text of the 1-based line without its newline.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start >= lenContent || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// Slice returns the bytes covered by span, clamped to the content.
func (f *File) Slice(span Span) string {
	start, end := int(span.Start), int(span.End)
	if start > len(f.Content) {
		start = len(f.Content)
	}
	if end > len(f.Content) {
		end = len(f.Content)
	}
	if end < start {
		end = start
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path: "absolute", "relative" (to baseDir), "basename"
// or "auto" (as stored).
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		return RelativePath(f.Path, baseDir)
	case "basename":
		return filepath.Base(f.Path)
	default:
		return f.Path
	}
}
