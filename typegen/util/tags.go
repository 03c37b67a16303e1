package util

import (
	"reflect"
	"strings"
)

// FieldTagInfo contains parsed struct tag information for projection
type FieldTagInfo struct {
	JSONName  string // Field name from json tag
	Omitempty bool   // Has omitempty option
	JSONSkip  bool   // json:"-"
	TSType    string // Custom target type from tstype tag
	TSSkip    bool   // tstype:"-"
}

// ParseFieldTags extracts json and tstype tags from a raw struct tag as
// returned by types.Struct.Tag (no backticks)
func ParseFieldTags(tag string) FieldTagInfo {
	info := FieldTagInfo{}
	if tag == "" {
		return info
	}
	st := reflect.StructTag(tag)

	if jsonTag, ok := st.Lookup("json"); ok {
		parts := strings.Split(jsonTag, ",")
		if parts[0] == "-" && len(parts) == 1 {
			info.JSONSkip = true
		} else {
			info.JSONName = parts[0]
		}
		for _, part := range parts[1:] {
			if part == "omitempty" {
				info.Omitempty = true
			}
		}
	}

	if tstype, ok := st.Lookup("tstype"); ok {
		if tstype == "-" {
			info.TSSkip = true
		} else {
			info.TSType = strings.Split(tstype, ",")[0]
		}
	}

	return info
}
