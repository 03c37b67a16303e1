package typegen

import (
	"go/ast"
	"go/token"
	"go/types"
)

// maxGenericDepth bounds descent into nested type arguments. The syntax tree
// is finite so recursion always ends; the bound only caps pathological input.
const maxGenericDepth = 64

// Dependencies is what one unit contributes to the closure
type Dependencies struct {
	// Required holds the type names referenced by members of wanted types
	Required WantedSet

	// Defines lists the wanted types declared in the unit, in source order
	Defines []TypeName
}

// Empty reports whether the unit contributes nothing
func (d Dependencies) Empty() bool {
	return len(d.Required) == 0 && len(d.Defines) == 0
}

// Visit walks the top-level type declarations of unit and returns the
// names that the projection of every wanted type will also need.
//
// Rules per member type expression:
//   - []T, [N]T, ...T: the element's names; the container is never required
//   - X[A], X[A, B], map[K]V: the leaf names of every argument, descending
//     through nested generics; X itself is never required
//   - *T: unwrapped, then the rules above
//   - struct{...}: the names of its own members
//   - anything else: the declared name (pkg.T contributes T)
//
// Wanted non-struct declarations (type Status int) contribute the names of
// their underlying type expression so that the declaring unit is compiled.
// Visit has no side effects; wanted is not modified.
func Visit(wanted WantedSet, unit *ParsedUnit) Dependencies {
	deps := Dependencies{Required: make(WantedSet)}
	if unit == nil || unit.File == nil {
		return deps
	}

	for _, decl := range unit.File.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Name == nil {
				continue
			}
			name := TypeName(typeSpec.Name.Name)
			if !wanted.Has(name) {
				continue
			}
			deps.Defines = append(deps.Defines, name)

			c := &collector{out: deps.Required, params: typeParamNames(typeSpec)}
			switch t := typeSpec.Type.(type) {
			case *ast.StructType:
				c.fields(t, 0)
			case *ast.InterfaceType:
				// method sets are not projected
			default:
				c.collect(t, 0)
			}
		}
	}

	return deps
}

// collector accumulates required names for one type declaration
type collector struct {
	out    WantedSet
	params map[string]bool // type parameters of the declaration, never required
}

func (c *collector) fields(st *ast.StructType, depth int) {
	if st.Fields == nil {
		return
	}
	for _, field := range st.Fields.List {
		c.collect(field.Type, depth)
	}
}

func (c *collector) collect(expr ast.Expr, depth int) {
	if depth > maxGenericDepth {
		return
	}
	switch t := expr.(type) {
	case *ast.ParenExpr:
		c.collect(t.X, depth)
	case *ast.StarExpr:
		c.collect(t.X, depth)
	case *ast.ArrayType:
		c.collect(t.Elt, depth)
	case *ast.Ellipsis:
		c.collect(t.Elt, depth)
	case *ast.IndexExpr:
		c.generic([]ast.Expr{t.Index}, depth+1)
	case *ast.IndexListExpr:
		c.generic(t.Indices, depth+1)
	case *ast.MapType:
		c.generic([]ast.Expr{t.Key, t.Value}, depth+1)
	case *ast.StructType:
		c.fields(t, depth+1)
	case *ast.SelectorExpr:
		c.emit(t.Sel.Name)
	case *ast.Ident:
		c.emit(t.Name)
	default:
		c.emit(types.ExprString(expr))
	}
}

// generic descends into type arguments. Each call consumes one layer of
// nesting: it recurses on the argument node, never on the generic node
// that holds it.
func (c *collector) generic(args []ast.Expr, depth int) {
	if depth > maxGenericDepth {
		return
	}
	for _, arg := range args {
		switch a := arg.(type) {
		case *ast.IndexExpr:
			c.generic([]ast.Expr{a.Index}, depth+1)
		case *ast.IndexListExpr:
			c.generic(a.Indices, depth+1)
		case *ast.MapType:
			c.generic([]ast.Expr{a.Key, a.Value}, depth+1)
		default:
			c.collect(arg, depth)
		}
	}
}

func (c *collector) emit(name string) {
	if name == "" || name == "_" || c.params[name] {
		return
	}
	c.out.Add(TypeName(name))
}

func typeParamNames(spec *ast.TypeSpec) map[string]bool {
	if spec.TypeParams == nil {
		return nil
	}
	params := make(map[string]bool)
	for _, field := range spec.TypeParams.List {
		for _, name := range field.Names {
			params[name.Name] = true
		}
	}
	return params
}
