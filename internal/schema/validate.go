package schema

import (
	"errors"
	"fmt"
)

// Sentinel causes for schema errors. Use errors.Is to classify.
var (
	ErrBadType   = errors.New("bad type in schema")
	ErrBadMinMax = errors.New("bad min/max in schema")
)

// Error reports a malformed schema node.
type Error struct {
	Path string // dotted path to the node, "" for the root
	Err  error  // ErrBadType or ErrBadMinMax
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Msg)
	}
	return fmt.Sprintf("%v at %s: %s", e.Err, e.Path, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validate checks that t is internally consistent.
// It does not check t against any Go target type; the binder does that.
func Validate(t *Type) error {
	return validate(t, "")
}

func validate(t *Type, path string) error {
	if t == nil {
		return &Error{Path: path, Err: ErrBadType, Msg: "nil type"}
	}
	if _, ok := kindNames[t.Kind]; !ok {
		return &Error{Path: path, Err: ErrBadType, Msg: fmt.Sprintf("unknown kind %d", int(t.Kind))}
	}

	switch t.Kind {
	case KindString:
		return validateBounds(t, path)

	case KindMapping:
		if len(t.Fields) == 0 {
			return nil
		}
		seen := make(map[string]bool, len(t.Fields))
		members := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			fieldPath := join(path, f.Key)
			if f.Key == "" {
				return &Error{Path: path, Err: ErrBadType, Msg: "mapping field with empty key"}
			}
			if seen[f.Key] {
				return &Error{Path: fieldPath, Err: ErrBadType, Msg: "duplicate mapping key"}
			}
			seen[f.Key] = true
			member := f.MemberName()
			if members[member] {
				return &Error{Path: fieldPath, Err: ErrBadType, Msg: fmt.Sprintf("member %s bound twice", member)}
			}
			members[member] = true
			if err := validate(f.Type, fieldPath); err != nil {
				return err
			}
		}
		return nil

	case KindSequence, KindSequenceFixed:
		if t.Entry == nil {
			return &Error{Path: path, Err: ErrBadType, Msg: "sequence without entry type"}
		}
		if err := validateBounds(t, path); err != nil {
			return err
		}
		if t.Kind == KindSequenceFixed && (t.Min != t.Max || t.Min <= 0) {
			return &Error{Path: path, Err: ErrBadMinMax, Msg: fmt.Sprintf("fixed sequence needs min == max > 0, got %d..%d", t.Min, t.Max)}
		}
		return validate(t.Entry, path+"[]")
	}

	return nil
}

func validateBounds(t *Type, path string) error {
	if t.Min < 0 {
		return &Error{Path: path, Err: ErrBadMinMax, Msg: fmt.Sprintf("negative min %d", t.Min)}
	}
	if t.Max != Unlimited && t.Max < t.Min {
		return &Error{Path: path, Err: ErrBadMinMax, Msg: fmt.Sprintf("max %d below min %d", t.Max, t.Min)}
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
