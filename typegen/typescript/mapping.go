package typescript

import (
	"go/types"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/teranos/modelexport/typegen"
	"github.com/teranos/modelexport/typegen/util"
)

const unknownType = "unknown"

// uuidPkgPath is the import path of the UUID type projected as string
var uuidPkgPath = reflect.TypeOf(uuid.UUID{}).PkgPath()

// TypeMapping defines how named Go types map to TypeScript types.
// Keys are qualified by full import path.
var TypeMapping = map[string]string{
	"time.Time":                             "string",
	"time.Duration":                         "number",
	"encoding/json.RawMessage":              unknownType,
	"encoding/json.Number":                  "number",
	"math/big.Int":                          "number",
	"math/big.Float":                        "number",
	"math/big.Rat":                          "number",
	"github.com/shopspring/decimal.Decimal": "number",
	uuidPkgPath + ".UUID":                   "string",
	// SQL nullable types project as their value type
	"database/sql.NullString":  "string",
	"database/sql.NullInt64":   "number",
	"database/sql.NullInt32":   "number",
	"database/sql.NullInt16":   "number",
	"database/sql.NullByte":    "number",
	"database/sql.NullFloat64": "number",
	"database/sql.NullBool":    "boolean",
	"database/sql.NullTime":    "string",
}

// qualifiedName returns "import/path.Name" for obj, or just Name for
// universe objects
func qualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// mapType converts a checked Go type to a TypeScript type, containers
// inside-out
func (g *Generator) mapType(t types.Type, index *typegen.Resolved) string {
	switch tt := t.(type) {
	case *types.Alias:
		if mapped, ok := TypeMapping[qualifiedName(tt.Obj())]; ok {
			return mapped
		}
		return g.mapType(types.Unalias(tt), index)

	case *types.Basic:
		return mapBasic(tt)

	case *types.Pointer:
		// nullable wrapper, unwrapped
		return g.mapType(tt.Elem(), index)

	case *types.Slice:
		if isByte(tt.Elem()) {
			// []byte is base64 text in JSON
			return "string"
		}
		return g.mapType(tt.Elem(), index) + "[]"

	case *types.Array:
		return g.mapType(tt.Elem(), index) + "[]"

	case *types.Map:
		return "Record<" + g.mapType(tt.Key(), index) + ", " + g.mapType(tt.Elem(), index) + ">"

	case *types.Named:
		return g.mapNamed(tt, index)

	case *types.Struct:
		return g.inlineStruct(tt, index)

	case *types.TypeParam:
		return tt.Obj().Name()

	default:
		// interfaces, funcs, channels
		return unknownType
	}
}

func (g *Generator) mapNamed(t *types.Named, index *typegen.Resolved) string {
	obj := t.Obj()
	if mapped, ok := TypeMapping[qualifiedName(obj)]; ok {
		return mapped
	}

	args := t.TypeArgs()
	if args.Len() == 1 {
		if obj.Pkg() != nil && obj.Pkg().Path() == "database/sql" && obj.Name() == "Null" {
			return g.mapType(args.At(0), index)
		}
		if _, ok := t.Underlying().(*types.Slice); ok {
			// single-element sequence
			return g.mapType(args.At(0), index) + "[]"
		}
	}

	if rt, ok := index.LookupNamed(obj); ok {
		return g.Identifier(rt)
	}
	if obj.Pkg() == nil {
		// predeclared error and comparable
		return unknownType
	}
	return obj.Name()
}

func (g *Generator) inlineStruct(st *types.Struct, index *typegen.Resolved) string {
	var parts []string
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}
		name, typ, skip := g.member(f.Name(), f.Type(), st.Tag(i), index)
		if skip {
			continue
		}
		parts = append(parts, name+": "+typ+";")
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// member returns the TypeScript name and type of one field
func (g *Generator) member(name string, t types.Type, tag string, index *typegen.Resolved) (string, string, bool) {
	info := util.ParseFieldTags(tag)
	if info.TSSkip || (g.jsonTags && info.JSONSkip) {
		return "", "", true
	}

	memberName := util.ToMemberName(name)
	if g.jsonTags && info.JSONName != "" {
		memberName = info.JSONName
	}

	typ := info.TSType
	if typ == "" {
		typ = g.mapType(t, index)
	}
	return memberName, typ, false
}

func mapBasic(b *types.Basic) string {
	switch {
	case b.Info()&types.IsBoolean != 0:
		return "boolean"
	case b.Name() == "rune":
		return "string"
	case b.Info()&types.IsString != 0:
		return "string"
	case b.Info()&types.IsNumeric != 0:
		return "number"
	default:
		return unknownType
	}
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Byte
}
