package binder

import (
	"reflect"

	"github.com/roach88/schemabind/internal/schema"
)

// checkShape reports whether values of type rt can hold everything t
// describes. Load runs it before allocating, so a mismatched target fails
// with nothing to roll back.
func checkShape(t *schema.Type, rt reflect.Type, path string) error {
	if t.IsPointer() {
		if rt.Kind() != reflect.Pointer {
			return shapeError(path, t, rt)
		}
		rt = rt.Elem()
	}

	switch t.Kind {
	case schema.KindMapping:
		if rt.Kind() != reflect.Struct {
			return shapeError(path, t, rt)
		}
		for _, f := range t.Fields {
			fieldPath := join(path, f.Key)
			sf, ok := rt.FieldByName(f.MemberName())
			if !ok || !sf.IsExported() || len(sf.Index) != 1 {
				return newError(CodeBadTarget, fieldPath, "%s has no settable member %s", rt, f.MemberName())
			}
			if err := checkShape(f.Type, sf.Type, fieldPath); err != nil {
				return err
			}
		}
		return nil

	case schema.KindSequence:
		if rt.Kind() != reflect.Slice {
			return shapeError(path, t, rt)
		}
		return checkShape(t.Entry, rt.Elem(), path+"[]")

	case schema.KindSequenceFixed:
		if rt.Kind() != reflect.Array || rt.Len() != t.Min {
			return shapeError(path, t, rt)
		}
		return checkShape(t.Entry, rt.Elem(), path+"[]")

	case schema.KindInt:
		return expectKind(path, t, rt, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64)
	case schema.KindUint:
		return expectKind(path, t, rt, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64)
	case schema.KindBool:
		return expectKind(path, t, rt, reflect.Bool)
	case schema.KindFloat:
		return expectKind(path, t, rt, reflect.Float32, reflect.Float64)
	case schema.KindString:
		return expectKind(path, t, rt, reflect.String)
	}
	return newError(CodeBadTypeInSchema, path, "unexpected kind %s", t.Kind)
}

func expectKind(path string, t *schema.Type, rt reflect.Type, kinds ...reflect.Kind) error {
	for _, k := range kinds {
		if rt.Kind() == k {
			return nil
		}
	}
	return shapeError(path, t, rt)
}

func shapeError(path string, t *schema.Type, rt reflect.Type) error {
	return newError(CodeBadTarget, path, "cannot bind %s into %s", t.Kind, rt)
}
