package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError represents a schema compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUEFile compiles the schema described by a single CUE file.
// The file's top-level value is the root Type.
func LoadCUEFile(path string) (*Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return CompileCUE(v)
}

// CompileCUE parses a CUE value into a Type.
//
// Recognised fields:
//
//	kind:     "int" | "uint" | "bool" | "float" | "string" | "mapping" | "sequence" | "sequence_fixed"
//	pointer:  bool
//	optional: bool
//	min, max: int  (max omitted means unlimited)
//	count:    int  (sequence_fixed only)
//	member:   string (struct member, defaults to GoName of the key)
//	entry:    {...} (sequences)
//	fields:   {key: {...}, ...} (mappings, declaration order is kept)
func CompileCUE(v cue.Value) (*Type, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	t, err := compileType(v, "schema")
	if err != nil {
		return nil, err
	}
	if err := Validate(t); err != nil {
		return nil, &CompileError{Field: "schema", Message: err.Error(), Pos: v.Pos()}
	}
	return t, nil
}

func compileType(v cue.Value, field string) (*Type, error) {
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{Field: field, Message: "kind is required", Pos: v.Pos()}
	}
	kindName, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	kind, ok := ParseKind(kindName)
	if !ok {
		return nil, &CompileError{Field: field + ".kind", Message: fmt.Sprintf("unknown kind %q", kindName), Pos: kindVal.Pos()}
	}

	t := &Type{Kind: kind}
	if kind == KindString || kind == KindSequence {
		t.Max = Unlimited
	}

	if on, err := lookupBool(v, "pointer"); err != nil {
		return nil, err
	} else if on {
		t.Flags |= FlagPointer
	}
	if on, err := lookupBool(v, "optional"); err != nil {
		return nil, err
	} else if on {
		t.Flags |= FlagOptional
	}

	if n, ok, err := lookupInt(v, "min"); err != nil {
		return nil, err
	} else if ok {
		t.Min = n
	}
	if n, ok, err := lookupInt(v, "max"); err != nil {
		return nil, err
	} else if ok {
		t.Max = n
	}

	switch kind {
	case KindSequence, KindSequenceFixed:
		entryVal := v.LookupPath(cue.ParsePath("entry"))
		if !entryVal.Exists() {
			return nil, &CompileError{Field: field + ".entry", Message: "entry is required for sequences", Pos: v.Pos()}
		}
		entry, err := compileType(entryVal, field+".entry")
		if err != nil {
			return nil, err
		}
		t.Entry = entry

		if kind == KindSequenceFixed {
			n, ok, err := lookupInt(v, "count")
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &CompileError{Field: field + ".count", Message: "count is required for sequence_fixed", Pos: v.Pos()}
			}
			t.Min, t.Max = n, n
		}

	case KindMapping:
		fieldsVal := v.LookupPath(cue.ParsePath("fields"))
		if !fieldsVal.Exists() {
			break
		}
		iter, err := fieldsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			key := iter.Label()
			ft, err := compileType(iter.Value(), field+".fields."+key)
			if err != nil {
				return nil, err
			}
			f := NewField(key, ft)
			member := iter.Value().LookupPath(cue.ParsePath("member"))
			if member.Exists() {
				name, err := member.String()
				if err != nil {
					return nil, formatCUEError(err)
				}
				f = f.As(name)
			}
			t.Fields = append(t.Fields, f)
		}
	}

	return t, nil
}

func lookupBool(v cue.Value, name string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func lookupInt(v cue.Value, name string) (int, bool, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return 0, false, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, false, formatCUEError(err)
	}
	return int(n), true, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
