package typegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
)

// TypeName is a type identifier as written in source. It is not validated
// against the compiled type system.
type TypeName string

// WantedSet is the set of type names that must appear in the output.
// It only ever grows during a closure run.
type WantedSet map[TypeName]struct{}

// NewWantedSet creates a set seeded with names
func NewWantedSet(names ...string) WantedSet {
	s := make(WantedSet, len(names))
	for _, name := range names {
		s.Add(TypeName(name))
	}
	return s
}

// Has reports whether name is wanted
func (s WantedSet) Has(name TypeName) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name and reports whether it was new
func (s WantedSet) Add(name TypeName) bool {
	if name == "" || s.Has(name) {
		return false
	}
	s[name] = struct{}{}
	return true
}

// Merge adds every name of other and returns how many were new
func (s WantedSet) Merge(other WantedSet) int {
	added := 0
	for name := range other {
		if s.Add(name) {
			added++
		}
	}
	return added
}

// Sorted returns the names in lexical order
func (s WantedSet) Sorted() []TypeName {
	names := make([]TypeName, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Strings returns the sorted names as plain strings
func (s WantedSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, name := range sorted {
		out[i] = string(name)
	}
	return out
}

// ParsedUnit is the syntax of one corpus file paired with its path.
// Units are immutable once created.
type ParsedUnit struct {
	Path string
	Fset *token.FileSet

	// File is the (possibly partial) syntax tree. Content that is not Go
	// yields a File without declarations.
	File *ast.File

	// Digest identifies the content the unit was parsed from
	Digest Digest

	// Err is the parser error, if any. The closure never surfaces it.
	Err error

	// tok is the entry the parse added to Fset, or nil
	tok *token.File
}

// PackageName returns the package clause name, or "" when there is none
func (u *ParsedUnit) PackageName() string {
	if u == nil || u.File == nil || u.File.Name == nil {
		return ""
	}
	return u.File.Name.Name
}

// ParseUnit parses src into a unit registered with fset. Parse errors are
// recorded on the unit rather than returned.
func ParseUnit(fset *token.FileSet, path string, src []byte) *ParsedUnit {
	return parseUnit(fset, path, src, digestOf(path, src))
}

func parseUnit(fset *token.FileSet, path string, src []byte, digest Digest) *ParsedUnit {
	base := fset.Base()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if file == nil {
		file = &ast.File{Name: ast.NewIdent("")}
	}
	return &ParsedUnit{
		Path:   path,
		Fset:   fset,
		File:   file,
		Digest: digest,
		Err:    err,
		tok:    fset.File(token.Pos(base)),
	}
}
