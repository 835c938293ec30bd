package binder

import (
	"errors"
	"reflect"

	"github.com/roach88/schemabind/internal/schema"
)

// Free releases everything transitively owned by the result slot out and
// clears the slot. It is safe to call when the slot is empty.
//
// count is the number of entries of a top-level sequence, as written by
// Load, and must match the slice length. It is ignored for other top-level
// kinds.
//
// Free keeps going after a member it cannot release, so one bad entry does
// not strand the rest; every failure is returned joined.
func Free(cfg *Config, s *schema.Type, out any, count int) error {
	if cfg == nil {
		return newError(CodeBadParamNullConfig, "", "config is nil")
	}
	if s == nil {
		return newError(CodeBadParamNullSchema, "", "schema is nil")
	}
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newError(CodeBadParamNullData, "", "result slot must be a non-nil pointer, got %T", out)
	}
	slot := rv.Elem()

	f := &freer{cfg: cfg, mem: cfg.allocator()}
	if s.Kind != schema.KindSequence {
		cfg.logf(LogDebug, "Free: Top level %s", s.Kind)
		return f.value(s, slot, "")
	}

	if slot.Kind() != reflect.Slice {
		return badTarget("", s, slot)
	}
	if slot.IsNil() {
		return nil
	}
	if count != slot.Len() {
		return newError(CodeBadParamSeqCount, "", "count %d does not match %d entries", count, slot.Len())
	}
	cfg.logf(LogDebug, "Free: Top level sequence with %d entries", count)
	return f.value(s, slot, "")
}

type freer struct {
	cfg *Config
	mem Allocator
}

// value releases the allocations inside v, then v itself if the schema
// says it is a pointer. Empty pointers and slices are skipped, so a
// partially built value can be freed with the same walk.
func (f *freer) value(t *schema.Type, v reflect.Value, path string) error {
	if !t.IsPointer() {
		return f.inner(t, v, path)
	}
	if v.Kind() != reflect.Pointer {
		return badTarget(path, t, v)
	}
	if v.IsNil() {
		return nil
	}
	err := f.inner(t, v.Elem(), path)
	return errors.Join(err, f.release(v, path))
}

func (f *freer) inner(t *schema.Type, v reflect.Value, path string) error {
	var errs []error
	switch t.Kind {
	case schema.KindMapping:
		if v.Kind() != reflect.Struct {
			return badTarget(path, t, v)
		}
		for _, field := range t.Fields {
			member := v.FieldByName(field.MemberName())
			if !member.IsValid() {
				errs = append(errs, newError(CodeBadTarget, join(path, field.Key), "%s has no member %s", v.Type(), field.MemberName()))
				continue
			}
			errs = append(errs, f.value(field.Type, member, join(path, field.Key)))
		}

	case schema.KindSequence:
		if v.Kind() != reflect.Slice {
			return badTarget(path, t, v)
		}
		if v.IsNil() {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			errs = append(errs, f.value(t.Entry, v.Index(i), index(path, i)))
		}
		errs = append(errs, f.release(v, path))

	case schema.KindSequenceFixed:
		if v.Kind() != reflect.Array {
			return badTarget(path, t, v)
		}
		for i := 0; i < v.Len(); i++ {
			errs = append(errs, f.value(t.Entry, v.Index(i), index(path, i)))
		}
	}
	return errors.Join(errs...)
}

// release hands v back to the allocator and clears it.
func (f *freer) release(v reflect.Value, path string) error {
	if err := f.mem.Free(v); err != nil {
		f.cfg.logf(LogError, "Free: %v", err)
		return &Error{Code: CodeBadFree, Path: path, Msg: err.Error(), Err: err}
	}
	if v.CanSet() {
		v.SetZero()
	}
	return nil
}
