package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// ErrSourceNotFound is returned when an input file does not exist.
var ErrSourceNotFound = errors.New("input file not found")

// Options tells a Reader where the data sits.
type Options struct {
	Sheet      string // xlsx only; empty = first sheet
	HeaderRows int
}

// Reader decodes one tabular input format into rows of raw cells.
type Reader interface {
	Read(r io.Reader, opts Options) (*model.Sheet, error)
	Format() string
}

// Registry holds readers keyed by format name.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes an input file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// ForPath returns the reader matching the file extension, or nil.
func (r *Registry) ForPath(path string) Reader {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "xlsm" {
		ext = "xlsx"
	}
	return r.Get(ext)
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&CSVReader{})
	return r
}

// ReadFile opens path and decodes it with the reader for its extension.
func (r *Registry) ReadFile(path string, opts Options) (*model.Sheet, error) {
	rd := r.ForPath(path)
	if rd == nil {
		return nil, fmt.Errorf("no reader for %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := rd.Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return sheet, nil
}

// importDir is the subdirectory for input files.
const importDir = "import"

// processedDir is the subdirectory for processed input files.
const processedDir = "import/processed"

// ImportDir returns <repoRoot>/import.
func ImportDir(repoRoot string) string {
	return filepath.Join(repoRoot, importDir)
}

// Supported reports whether name has an extension a built-in reader handles.
// Spreadsheet lock files (~$name.xlsx) are not supported.
func Supported(name string) bool {
	if strings.HasPrefix(filepath.Base(name), "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	default:
		return false
	}
}

// Scan returns input files in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := ImportDir(repoRoot)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/ and returns
// the archived name. An existing archive of the same name is kept; the new
// file gets a -2, -3, ... suffix instead.
func MarkProcessed(repoRoot, fileName string) (string, error) {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	name := fileName
	for n := 2; ; n++ {
		_, err := os.Lstat(filepath.Join(dstDir, name))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("checking processed dir: %w", err)
		}
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}

	if err := os.Rename(src, filepath.Join(dstDir, name)); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return name, nil
}
