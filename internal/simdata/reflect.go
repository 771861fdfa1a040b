package simdata

import (
	"fmt"
	"reflect"
	"strings"
)

// Field reflection over preference records. A field path is the dotted
// list of yaml names from the record root, e.g. "commonprefs.datadraw".
// Scalar fields are pointers, nested records are pointers to structs, and
// repeated fields are slices.

// MergePrefs copies every set field of src onto dst. Nested records merge
// recursively and repeated fields append. dst and src must be pointers to
// the same struct type.
func MergePrefs(dst, src any) {
	dv, sv := structPair(dst, src)
	mergeStruct(dv, sv)
}

// ClonePrefs returns a deep copy of p that shares no memory with it.
func ClonePrefs[P any](p *P) *P {
	out := new(P)
	if p != nil {
		MergePrefs(out, p)
	}
	return out
}

// CopyPrefs replaces dst with a deep copy of src.
func CopyPrefs[P any](dst, src *P) {
	var zero P
	*dst = zero
	if src != nil {
		MergePrefs(dst, src)
	}
}

// PrefsEqual reports whether two preference records hold the same values.
// A nil repeated field equals an empty one.
func PrefsEqual[P any](a, b *P) bool {
	if a == b {
		return true
	}
	return equalValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func equalValue(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalValue(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equalValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	default:
		return a.Equal(b)
	}
}

// SetFieldPaths lists the paths of every set scalar or non-empty repeated
// field in p, in declaration order.
func SetFieldPaths(p any) []string {
	v := structValue(p)
	var out []string
	collectPaths(v, "", &out)
	return out
}

// ClearFieldPath unsets the field named by path in p. Clearing a field
// that is already unset is not an error; an unknown path is.
func ClearFieldPath(p any, path string) error {
	v := structValue(p)
	parts := strings.Split(path, ".")
	for i, name := range parts {
		idx, ok := fieldIndex(v.Type(), name)
		if !ok {
			return fmt.Errorf("unknown field %q in %s", path, v.Type().Name())
		}
		f := v.Field(idx)
		if i == len(parts)-1 {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		if f.Kind() != reflect.Pointer || f.Type().Elem().Kind() != reflect.Struct {
			return fmt.Errorf("field %q in %s is not a record", name, v.Type().Name())
		}
		if f.IsNil() {
			return nil
		}
		v = f.Elem()
	}
	return nil
}

// HasFieldPath reports whether path names a set field of p.
func HasFieldPath(p any, path string) bool {
	v := structValue(p)
	parts := strings.Split(path, ".")
	for i, name := range parts {
		idx, ok := fieldIndex(v.Type(), name)
		if !ok {
			return false
		}
		f := v.Field(idx)
		if i == len(parts)-1 {
			return isSet(f)
		}
		if f.Kind() != reflect.Pointer || f.IsNil() {
			return false
		}
		v = f.Elem()
	}
	return false
}

// HasRepeated reports whether any repeated field in p is non-empty.
func HasRepeated(p any) bool {
	return hasRepeated(structValue(p))
}

// ClearRepeated empties every repeated field in p.
func ClearRepeated(p any) {
	clearRepeated(structValue(p))
}

// ClearOverlappingRepeated empties each repeated field of dst that is
// non-empty in src, so a following merge replaces instead of appending.
func ClearOverlappingRepeated(dst, src any) {
	dv, sv := structPair(dst, src)
	clearOverlapping(dv, sv)
}

func structValue(p any) reflect.Value {
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("simdata: %T is not a pointer to a preferences record", p))
	}
	return v.Elem()
}

func structPair(dst, src any) (reflect.Value, reflect.Value) {
	dv, sv := structValue(dst), structValue(src)
	if dv.Type() != sv.Type() {
		panic(fmt.Sprintf("simdata: cannot merge %s into %s", sv.Type(), dv.Type()))
	}
	return dv, sv
}

func mergeStruct(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		sf := src.Field(i)
		df := dst.Field(i)
		if !df.CanSet() {
			continue
		}
		switch sf.Kind() {
		case reflect.Pointer:
			if sf.IsNil() {
				continue
			}
			if sf.Elem().Kind() == reflect.Struct {
				if df.IsNil() {
					df.Set(reflect.New(sf.Type().Elem()))
				}
				mergeStruct(df.Elem(), sf.Elem())
				continue
			}
			cp := reflect.New(sf.Type().Elem())
			cp.Elem().Set(sf.Elem())
			df.Set(cp)
		case reflect.Slice:
			if sf.Len() == 0 {
				continue
			}
			merged := reflect.MakeSlice(sf.Type(), 0, df.Len()+sf.Len())
			merged = reflect.AppendSlice(merged, df)
			merged = reflect.AppendSlice(merged, sf)
			df.Set(merged)
		default:
			if !sf.IsZero() {
				df.Set(sf)
			}
		}
	}
}

func collectPaths(v reflect.Value, prefix string, out *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !t.Field(i).IsExported() {
			continue
		}
		path := prefix + fieldName(t.Field(i))
		if f.Kind() == reflect.Pointer && !f.IsNil() && f.Elem().Kind() == reflect.Struct {
			collectPaths(f.Elem(), path+".", out)
			continue
		}
		if isSet(f) {
			*out = append(*out, path)
		}
	}
}

func isSet(f reflect.Value) bool {
	switch f.Kind() {
	case reflect.Pointer:
		return !f.IsNil()
	case reflect.Slice:
		return f.Len() > 0
	default:
		return !f.IsZero()
	}
}

func hasRepeated(v reflect.Value) bool {
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch {
		case f.Kind() == reflect.Slice && f.Len() > 0:
			return true
		case f.Kind() == reflect.Pointer && !f.IsNil() && f.Elem().Kind() == reflect.Struct:
			if hasRepeated(f.Elem()) {
				return true
			}
		}
	}
	return false
}

func clearRepeated(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch {
		case f.Kind() == reflect.Slice && f.CanSet():
			f.Set(reflect.Zero(f.Type()))
		case f.Kind() == reflect.Pointer && !f.IsNil() && f.Elem().Kind() == reflect.Struct:
			clearRepeated(f.Elem())
		}
	}
}

func clearOverlapping(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		sf, df := src.Field(i), dst.Field(i)
		switch {
		case sf.Kind() == reflect.Slice && sf.Len() > 0 && df.CanSet():
			df.Set(reflect.Zero(df.Type()))
		case sf.Kind() == reflect.Pointer && !sf.IsNil() && sf.Elem().Kind() == reflect.Struct && !df.IsNil():
			clearOverlapping(df.Elem(), sf.Elem())
		}
	}
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() && fieldName(t.Field(i)) == name {
			return i, true
		}
	}
	return 0, false
}

func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("yaml"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}
