package typegen

import (
	"fmt"
	"go/importer"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/modelexport/errors"
)

// Module describes the go.mod that encloses a corpus
type Module struct {
	// Dir is the directory holding go.mod
	Dir string

	// Path is the module path from the module directive
	Path string

	// GoVersion is the go directive normalized for go/types ("go1.22"),
	// or "" when the directive is missing or unparseable
	GoVersion string
}

// FindModule walks up from dir to the nearest go.mod. It returns nil when
// there is none.
func FindModule(dir string) (*Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", dir)
	}
	for {
		gomod := filepath.Join(abs, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			return parseModule(abs, gomod, data)
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read %s", gomod)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, nil
		}
		abs = parent
	}
}

func parseModule(dir, path string, data []byte) (*Module, error) {
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	mod := &Module{Dir: dir}
	if f.Module != nil {
		mod.Path = f.Module.Mod.Path
	}
	if f.Go != nil {
		mod.GoVersion = normalizeGoVersion(f.Go.Version)
	}
	return mod, nil
}

// normalizeGoVersion turns a go directive ("1.24.6", "1.21rc1") into the
// language version go/types expects ("go1.24")
func normalizeGoVersion(raw string) string {
	raw = strings.TrimPrefix(raw, "go")
	if i := strings.IndexFunc(raw, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i >= 0 {
		raw = raw[:i]
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("go%d.%d", v.Major(), v.Minor())
}

// ImportPath returns the import path of the package in dir, or "" when dir
// lies outside the module
func (m *Module) ImportPath(dir string) string {
	if m == nil || m.Path == "" {
		return ""
	}
	rel, err := filepath.Rel(m.Dir, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	if rel == "." {
		return m.Path
	}
	return m.Path + "/" + filepath.ToSlash(rel)
}

// packagesImporter resolves imports through go/packages from the module
// directory, so module dependencies and replace directives are honored.
// Packages loaded together share one type universe; the cache keeps every
// package seen, transitive imports included.
type packagesImporter struct {
	dir   string
	fset  *token.FileSet
	cache map[string]*types.Package
	log   *zap.SugaredLogger
}

func newPackagesImporter(dir string, fset *token.FileSet, log *zap.SugaredLogger) *packagesImporter {
	return &packagesImporter{
		dir:   dir,
		fset:  fset,
		cache: map[string]*types.Package{"unsafe": types.Unsafe},
		log:   log,
	}
}

const importMode = packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps

// Preload loads paths in one go/packages call
func (p *packagesImporter) Preload(paths []string) error {
	var missing []string
	for _, path := range paths {
		if _, ok := p.cache[path]; !ok && path != "C" {
			missing = append(missing, path)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	cfg := &packages.Config{
		Mode: importMode,
		Dir:  p.dir,
		Fset: p.fset,
	}
	pkgs, err := packages.Load(cfg, missing...)
	if err != nil {
		return errors.Wrapf(err, "failed to load imports %v", missing)
	}
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if pkg.Types == nil || len(pkg.Errors) > 0 {
			return
		}
		if _, ok := p.cache[pkg.PkgPath]; !ok {
			p.cache[pkg.PkgPath] = pkg.Types
		}
	})
	p.log.Debugw("Loaded imports", "requested", len(missing), "cached", len(p.cache))
	return nil
}

// Import implements types.Importer
func (p *packagesImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := p.cache[path]; ok {
		return pkg, nil
	}
	if err := p.Preload([]string{path}); err != nil {
		return nil, err
	}
	if pkg, ok := p.cache[path]; ok {
		return pkg, nil
	}
	return nil, errors.Newf("package %q not found from %s", path, p.dir)
}

// newImporter picks the importer for a compile: module-aware when a module
// is known, the toolchain default otherwise
func newImporter(mod *Module, fset *token.FileSet, log *zap.SugaredLogger) (types.Importer, func([]string)) {
	if mod == nil {
		return importer.Default(), func([]string) {}
	}
	imp := newPackagesImporter(mod.Dir, fset, log)
	return imp, func(paths []string) {
		if err := imp.Preload(paths); err != nil {
			log.Debugw("Import preload failed, falling back to per-package loads", "error", err)
		}
	}
}
