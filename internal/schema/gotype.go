package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GoName turns a document key into an exported Go identifier:
// "cake_count" becomes "CakeCount", "sounds" becomes "Sounds".
func GoName(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "X"
	}

	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}

	name := b.String()
	first := []rune(name)[0]
	if !unicode.IsUpper(first) {
		name = "X" + name
	}
	return name
}

// GoType synthesizes the Go type the binder expects for t.
//
// Integers bind to int64, unsigned integers to uint64 and floats to float64.
// Mapping members carry a json tag with the document key so a bound value
// marshals back to the document's shape.
func GoType(t *Type) (reflect.Type, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	return goType(t, "")
}

func goType(t *Type, path string) (reflect.Type, error) {
	var base reflect.Type

	switch t.Kind {
	case KindInt:
		base = reflect.TypeOf((*int64)(nil)).Elem()
	case KindUint:
		base = reflect.TypeOf((*uint64)(nil)).Elem()
	case KindBool:
		base = reflect.TypeOf((*bool)(nil)).Elem()
	case KindFloat:
		base = reflect.TypeOf((*float64)(nil)).Elem()
	case KindString:
		base = reflect.TypeOf((*string)(nil)).Elem()

	case KindMapping:
		fields := make([]reflect.StructField, 0, len(t.Fields))
		for _, f := range t.Fields {
			ft, err := goType(f.Type, join(path, f.Key))
			if err != nil {
				return nil, err
			}
			tag := f.Key
			if f.Type.IsOptional() {
				tag += ",omitempty"
			}
			fields = append(fields, reflect.StructField{
				Name: f.MemberName(),
				Type: ft,
				Tag:  reflect.StructTag(fmt.Sprintf(`json:%q`, tag)),
			})
		}
		base = reflect.StructOf(fields)

	case KindSequence:
		et, err := goType(t.Entry, path+"[]")
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(et), nil

	case KindSequenceFixed:
		et, err := goType(t.Entry, path+"[]")
		if err != nil {
			return nil, err
		}
		base = reflect.ArrayOf(t.Min, et)

	default:
		return nil, &Error{Path: path, Err: ErrBadType, Msg: fmt.Sprintf("unknown kind %d", int(t.Kind))}
	}

	if t.IsPointer() {
		return reflect.PointerTo(base), nil
	}
	return base, nil
}
