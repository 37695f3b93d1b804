// Package selector validates and holds the source file chosen for analysis.
package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AllowedExtensions is the allow-list checked by Validate.
var AllowedExtensions = []string{".js", ".jsx", ".py"}

// AcceptHint is the extension filter offered to file choosers. It is advisory;
// Validate is the real gate.
const AcceptHint = ".js,.jsx,.py"

// ValidationError is returned when a file's extension is not allowed.
type ValidationError struct {
	Name string
}

func (e *ValidationError) Error() string {
	return "Please upload a .js, .jsx, or .py file"
}

// SelectedFile is a validated file ready to be uploaded.
type SelectedFile struct {
	Name      string
	Extension string // lowercase, with leading dot
	Content   []byte
}

// Size returns the content length in bytes.
func (f *SelectedFile) Size() int64 {
	return int64(len(f.Content))
}

// Extension returns "." plus the lowercased segment after the last '.' in
// name, or "" when name has no '.'.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return "." + strings.ToLower(name[i+1:])
}

// Validate checks name against AllowedExtensions, ignoring case.
func Validate(name string) error {
	ext := Extension(name)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return &ValidationError{Name: name}
}

// Selector tracks the current selection.
type Selector struct {
	selected *SelectedFile
}

// New returns an empty Selector.
func New() *Selector {
	return &Selector{}
}

// Select validates name and stores the file. A rejected file clears any
// previous selection.
func (s *Selector) Select(name string, content []byte) (*SelectedFile, error) {
	name = filepath.Base(name)
	if err := Validate(name); err != nil {
		s.selected = nil
		return nil, err
	}
	s.selected = &SelectedFile{
		Name:      name,
		Extension: Extension(name),
		Content:   content,
	}
	return s.selected, nil
}

// SelectPath validates the file name at path and, if allowed, reads and
// stores it. The file is not opened when validation fails.
func (s *Selector) SelectPath(path string) (*SelectedFile, error) {
	if err := Validate(filepath.Base(path)); err != nil {
		s.selected = nil
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		s.selected = nil
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.Select(path, content)
}

// Selected returns the current selection, or nil.
func (s *Selector) Selected() *SelectedFile {
	return s.selected
}

// Clear drops the current selection.
func (s *Selector) Clear() {
	s.selected = nil
}
