package typegen

import (
	"context"
	"fmt"
	"go/ast"
	"go/build"
	"go/scanner"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/modelexport/errors"
	"github.com/teranos/modelexport/logger"
	"github.com/teranos/modelexport/typegen/util"
)

// Kind is the shape a resolved type is projected as
type Kind int

const (
	// KindInterface is a struct, projected as an interface of its members
	KindInterface Kind = iota
	// KindEnum is a named integer or string type with typed constants
	KindEnum
	// KindAlias is any other named type, projected as a type alias
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Member is one exported field of a struct, after embedded structs have
// been flattened in place
type Member struct {
	Name     string
	Type     types.Type
	Embedded bool
	Tag      string

	// Doc is the field's doc or line comment text, "" when it has none or
	// was declared outside the corpus
	Doc string
}

// EnumMember is one typed constant of an enum. Value is the exact constant
// text, "2" or "\"shipped\"".
type EnumMember struct {
	Name  string
	Value string
}

// ResolvedType is the compiled shape of one wanted type
type ResolvedType struct {
	Name    string
	PkgPath string
	Kind    Kind

	Members     []Member
	EnumMembers []EnumMember

	// Underlying is the aliased type for KindAlias and the constant type for KindEnum
	Underlying types.Type

	Position token.Position
}

// Resolved holds the resolved types in resolution order
type Resolved struct {
	Types []*ResolvedType

	byName map[string]*ResolvedType
}

func newResolved() *Resolved {
	return &Resolved{byName: make(map[string]*ResolvedType)}
}

// NewResolved builds a Resolved holding rts in order. A name seen twice
// keeps its first type.
func NewResolved(rts ...*ResolvedType) *Resolved {
	r := newResolved()
	for _, rt := range rts {
		r.add(rt)
	}
	return r
}

// Lookup returns the resolved type named name
func (r *Resolved) Lookup(name string) (*ResolvedType, bool) {
	if r == nil {
		return nil, false
	}
	rt, ok := r.byName[name]
	return rt, ok
}

// LookupNamed returns the resolved type declared as obj, matching on both
// name and package so that a same-named foreign type is not mistaken for it
func (r *Resolved) LookupNamed(obj *types.TypeName) (*ResolvedType, bool) {
	rt, ok := r.Lookup(obj.Name())
	if !ok {
		return nil, false
	}
	if obj.Pkg() != nil && rt.PkgPath != obj.Pkg().Path() {
		return nil, false
	}
	return rt, true
}

func (r *Resolved) add(rt *ResolvedType) bool {
	if _, ok := r.byName[rt.Name]; ok {
		return false
	}
	r.byName[rt.Name] = rt
	r.Types = append(r.Types, rt)
	return true
}

// Diagnostic is one error reported while compiling the retained units
type Diagnostic struct {
	Pos token.Position
	Msg string
}

func (d Diagnostic) String() string {
	if !d.Pos.IsValid() {
		return d.Msg
	}
	return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
}

// CompileError carries every diagnostic of a failed compile, sorted by
// position
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s)", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		sb.WriteString("\n  ")
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Unwrap makes errors.Is(err, errors.ErrCompilation) hold
func (e *CompileError) Unwrap() error {
	return errors.ErrCompilation
}

// UnitLoader supplies parsed units for files outside the closure, such as
// same-package siblings. Builder satisfies it.
type UnitLoader interface {
	Unit(ctx context.Context, path string) *ParsedUnit
	FileSet() *token.FileSet
}

// ResolveOptions configures Resolve
type ResolveOptions struct {
	// ModuleDir overrides go.mod discovery. Empty means walk up from the
	// corpus root.
	ModuleDir string
}

// compileGroup is the set of files type-checked as one package
type compileGroup struct {
	dir      string
	pkgName  string
	retained []*ParsedUnit
	siblings []*ParsedUnit
	pkg      *types.Package
}

func (g *compileGroup) files() []*ast.File {
	files := make([]*ast.File, 0, len(g.retained)+len(g.siblings))
	for _, u := range g.retained {
		files = append(files, u.File)
	}
	for _, u := range g.siblings {
		files = append(files, u.File)
	}
	return files
}

// Resolve compiles the retained units and resolves every wanted type they
// define. Any compile error aborts with a *CompileError listing all
// diagnostics; nothing is resolved in that case. Wanted names with no
// definition in the retained units are left unresolved without error.
func Resolve(ctx context.Context, state *ClosureState, loader UnitLoader, opts ResolveOptions) (*Resolved, error) {
	log := logger.ComponentLogger("resolve")
	start := time.Now()
	resolved := newResolved()
	if state == nil || len(state.Units) == 0 {
		return resolved, nil
	}

	mod, err := findResolveModule(state, opts)
	if err != nil {
		return nil, err
	}

	fset := loader.FileSet()
	groups := groupUnits(compilableUnits(state.Units, log))
	addSiblings(ctx, groups, state, loader)

	imp, preload := newImporter(mod, fset, log)
	preload(collectImports(groups))

	conf := types.Config{
		Importer: imp,
	}
	if mod != nil {
		conf.GoVersion = mod.GoVersion
	}

	var diags []Diagnostic
	conf.Error = func(err error) {
		var terr types.Error
		if !errors.As(err, &terr) {
			diags = append(diags, Diagnostic{Msg: err.Error()})
			return
		}
		pos := terr.Fset.Position(terr.Pos)
		// "\tother declaration of X" continues the error before it
		if strings.HasPrefix(terr.Msg, "\t") && len(diags) > 0 {
			last := &diags[len(diags)-1]
			last.Msg += fmt.Sprintf("\n\t%s: %s", pos, strings.TrimPrefix(terr.Msg, "\t"))
			return
		}
		diags = append(diags, Diagnostic{Pos: pos, Msg: terr.Msg})
	}

	for _, g := range groups {
		diags = append(diags, parseDiagnostics(g.retained)...)

		path := mod.ImportPath(g.dir)
		if path == "" {
			path = g.pkgName
		}
		// Check reports through conf.Error; the returned error repeats the first one
		g.pkg, _ = conf.Check(path, fset, g.files(), nil)

		log.Debugw("Compiled package",
			logger.FieldPackage, path,
			logger.FieldDir, g.dir,
			logger.FieldRetained, len(g.retained),
			"siblings", len(g.siblings))
	}

	if len(diags) > 0 {
		sortDiagnostics(diags)
		return nil, &CompileError{Diagnostics: diags}
	}

	for _, g := range groups {
		resolveGroup(g, state.Wanted, fset, resolved, log)
	}

	log.Infow("Resolved types",
		logger.FieldCount, len(resolved.Types),
		logger.FieldWanted, len(state.Wanted),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return resolved, nil
}

func findResolveModule(state *ClosureState, opts ResolveOptions) (*Module, error) {
	dir := opts.ModuleDir
	if dir == "" && state.Corpus != nil {
		dir = state.Corpus.Root
	}
	if dir == "" {
		return nil, nil
	}
	return FindModule(dir)
}

// compilableUnits drops the retained units the go command would leave out
// of their package: non-Go and test files, and files excluded by build
// constraints or GOOS/GOARCH file name suffixes. A file whose constraints
// cannot be read is kept.
func compilableUnits(units []*ParsedUnit, log *zap.SugaredLogger) []*ParsedUnit {
	out := make([]*ParsedUnit, 0, len(units))
	for _, u := range units {
		if ok, err := buildable(u.Path); err == nil && !ok {
			log.Debugw("Excluded by build constraints", logger.FieldFile, u.Path)
			continue
		}
		out = append(out, u)
	}
	return out
}

// buildable reports whether path belongs to its package in a host build
func buildable(path string) (bool, error) {
	dir, base := filepath.Split(path)
	if !strings.HasSuffix(base, ".go") || strings.HasSuffix(base, "_test.go") {
		return false, nil
	}
	return build.Default.MatchFile(dir, base)
}

// groupUnits buckets units by directory and package clause, sorted by
// directory then package name
func groupUnits(units []*ParsedUnit) []*compileGroup {
	index := make(map[string]*compileGroup)
	var groups []*compileGroup
	for _, u := range units {
		dir := filepath.Dir(u.Path)
		key := dir + "\x00" + u.PackageName()
		g, ok := index[key]
		if !ok {
			g = &compileGroup{dir: dir, pkgName: u.PackageName()}
			index[key] = g
			groups = append(groups, g)
		}
		g.retained = append(g.retained, u)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].dir != groups[j].dir {
			return groups[i].dir < groups[j].dir
		}
		return groups[i].pkgName < groups[j].pkgName
	})
	for _, g := range groups {
		sort.Slice(g.retained, func(i, j int) bool { return g.retained[i].Path < g.retained[j].Path })
	}
	return groups
}

// addSiblings completes each group with the other Go files of its package
// in the corpus. Siblings that fail to parse, are tests, or are excluded by
// build constraints are left out.
func addSiblings(ctx context.Context, groups []*compileGroup, state *ClosureState, loader UnitLoader) {
	if state.Corpus == nil {
		return
	}
	byDir := make(map[string][]*compileGroup)
	for _, g := range groups {
		byDir[g.dir] = append(byDir[g.dir], g)
	}
	for _, path := range state.Corpus.Paths {
		dir := filepath.Dir(path)
		candidates, ok := byDir[dir]
		if !ok || state.Included(path) {
			continue
		}
		if match, err := buildable(path); err != nil || !match {
			continue
		}
		unit := loader.Unit(ctx, path)
		if unit == nil || unit.Err != nil {
			continue
		}
		for _, g := range candidates {
			if g.pkgName == unit.PackageName() {
				g.siblings = append(g.siblings, unit)
			}
		}
	}
}

func collectImports(groups []*compileGroup) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, g := range groups {
		for _, f := range g.files() {
			for _, imp := range f.Imports {
				path, err := strconv.Unquote(imp.Path.Value)
				if err != nil || seen[path] {
					continue
				}
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}
	sort.Strings(paths)
	return paths
}

func parseDiagnostics(units []*ParsedUnit) []Diagnostic {
	var diags []Diagnostic
	for _, u := range units {
		if u.Err == nil {
			continue
		}
		var list scanner.ErrorList
		if errors.As(u.Err, &list) {
			for _, e := range list {
				diags = append(diags, Diagnostic{Pos: e.Pos, Msg: e.Msg})
			}
			continue
		}
		diags = append(diags, Diagnostic{Pos: token.Position{Filename: u.Path}, Msg: u.Err.Error()})
	}
	return diags
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Pos, diags[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// resolveGroup adds the wanted types declared in g, in source order
func resolveGroup(g *compileGroup, wanted WantedSet, fset *token.FileSet, out *Resolved, log *zap.SugaredLogger) {
	if g.pkg == nil {
		return
	}
	scope := g.pkg.Scope()

	var objs []*types.TypeName
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() || !wanted.Has(TypeName(name)) {
			continue
		}
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool {
		pi, pj := fset.Position(objs[i].Pos()), fset.Position(objs[j].Pos())
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		return pi.Offset < pj.Offset
	})

	docs := fieldDocs(g.files())
	for _, obj := range objs {
		rt := resolveTypeName(obj, scope, fset, docs)
		if rt == nil {
			continue
		}
		if !out.add(rt) {
			first, _ := out.Lookup(rt.Name)
			log.Warnw("Duplicate type name, keeping first definition",
				logger.FieldType, rt.Name,
				"kept", first.PkgPath,
				"skipped", rt.PkgPath)
			continue
		}
		log.Debugw("Resolved type",
			logger.FieldType, rt.Name,
			logger.FieldKind, rt.Kind.String(),
			logger.FieldCount, len(rt.Members)+len(rt.EnumMembers))
	}
}

func resolveTypeName(obj *types.TypeName, scope *types.Scope, fset *token.FileSet, docs map[token.Pos]string) *ResolvedType {
	rt := &ResolvedType{
		Name:     obj.Name(),
		PkgPath:  obj.Pkg().Path(),
		Position: fset.Position(obj.Pos()),
	}

	if obj.IsAlias() {
		rt.Kind = KindAlias
		rt.Underlying = types.Unalias(obj.Type())
		return rt
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil
	}
	if named.TypeParams().Len() > 0 {
		// only instantiations are projected
		return nil
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		rt.Kind = KindInterface
		rt.Members = flattenStruct(u, map[*types.Struct]bool{u: true}, docs)
	case *types.Basic:
		if members := enumMembers(named, scope, fset); len(members) > 0 {
			rt.Kind = KindEnum
			rt.EnumMembers = members
		} else {
			rt.Kind = KindAlias
		}
		rt.Underlying = u
	default:
		rt.Kind = KindAlias
		rt.Underlying = u
	}
	return rt
}

// flattenStruct lists the exported fields of st in declaration order.
// Embedded structs contribute their own fields in place of the embedding
// field. seen guards against embedding cycles through pointers.
func flattenStruct(st *types.Struct, seen map[*types.Struct]bool, docs map[token.Pos]string) []Member {
	var members []Member
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			if inner, ok := embeddedStruct(f.Type()); ok {
				if !seen[inner] {
					seen[inner] = true
					members = append(members, flattenStruct(inner, seen, docs)...)
				}
				continue
			}
		}
		if !f.Exported() {
			continue
		}
		members = append(members, Member{
			Name:     f.Name(),
			Type:     f.Type(),
			Embedded: f.Embedded(),
			Tag:      st.Tag(i),
			Doc:      docs[f.Pos()],
		})
	}
	return members
}

// fieldDocs maps the position of every commented struct field name in files
// to its comment text
func fieldDocs(files []*ast.File) map[token.Pos]string {
	docs := make(map[token.Pos]string)
	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			st, ok := n.(*ast.StructType)
			if !ok || st.Fields == nil {
				return true
			}
			for _, field := range st.Fields.List {
				text := util.ExtractFieldComment(field)
				if text == "" {
					continue
				}
				for _, name := range field.Names {
					docs[name.Pos()] = text
				}
				if len(field.Names) == 0 {
					docs[embeddedPos(field.Type)] = text
				}
			}
			return true
		})
	}
	return docs
}

// embeddedPos returns the position go/types records for an embedded field,
// the type name identifier
func embeddedPos(expr ast.Expr) token.Pos {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.SelectorExpr:
			return e.Sel.Pos()
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		default:
			return expr.Pos()
		}
	}
}

func embeddedStruct(t types.Type) (*types.Struct, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}

// enumMembers returns the exported constants of type named in scope,
// ordered by file name then offset. Raw positions depend on the order files
// entered fset, which differs between a cold and a cached build.
func enumMembers(named *types.Named, scope *types.Scope, fset *token.FileSet) []EnumMember {
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Info()&(types.IsInteger|types.IsString) == 0 {
		return nil
	}

	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() || !types.Identical(c.Type(), named) {
			continue
		}
		consts = append(consts, c)
	}
	sort.Slice(consts, func(i, j int) bool {
		pi, pj := fset.Position(consts[i].Pos()), fset.Position(consts[j].Pos())
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		return pi.Offset < pj.Offset
	})

	members := make([]EnumMember, len(consts))
	for i, c := range consts {
		members[i] = EnumMember{Name: c.Name(), Value: c.Val().ExactString()}
	}
	return members
}
