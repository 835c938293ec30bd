package binder

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/schemabind/internal/schema"
)

// LoadFile reads the document at path and binds it into out.
// See Load for the meaning of the remaining parameters.
func LoadFile(path string, cfg *Config, s *schema.Type, out any, count *int) error {
	if _, err := checkParams(cfg, s, out, count); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		cfg.logf(LogError, "Load: Could not open file: %s", path)
		return &Error{Code: CodeFileOpen, Msg: path, Err: err}
	}
	return Load(data, cfg, s, out, count)
}

// LoadFS is LoadFile for a file inside fsys.
func LoadFS(fsys fs.FS, name string, cfg *Config, s *schema.Type, out any, count *int) error {
	if _, err := checkParams(cfg, s, out, count); err != nil {
		return err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		cfg.logf(LogError, "Load: Could not open file: %s", name)
		return &Error{Code: CodeFileOpen, Msg: name, Err: err}
	}
	return Load(data, cfg, s, out, count)
}

// Load binds a YAML document into out according to s.
//
// out must be a non-nil pointer to an empty result slot whose type matches
// s: a pointer for mappings and scalars, a slice for sequences. The
// top-level schema type must carry schema.FlagPointer. Top-level sequences
// also need count, which receives the number of entries loaded.
//
// On success the slot owns the loaded value until Free. On failure the slot
// is left untouched and every allocation made during the attempt has
// already been released.
func Load(data []byte, cfg *Config, s *schema.Type, out any, count *int) error {
	slot, err := checkParams(cfg, s, out, count)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		cfg.logf(LogError, "Load: Parse error: %v", err)
		return &Error{Code: CodeInvalidYAML, Msg: err.Error(), Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		cfg.logf(LogError, "Load: Empty document")
		return newError(CodeUnexpectedEvent, "", "empty document")
	}

	l := &loader{cfg: cfg, mem: cfg.allocator()}
	value := reflect.New(slot.Type()).Elem()
	if err := l.read(doc.Content[0], s, value, ""); err != nil {
		// Roll back whatever was built so far; the caller never sees it.
		f := &freer{cfg: cfg, mem: l.mem}
		if ferr := f.value(s, value, ""); ferr != nil {
			cfg.logf(LogError, "Load: Rollback failed: %v", ferr)
		}
		return err
	}

	slot.Set(value)
	if count != nil && s.Kind == schema.KindSequence {
		*count = value.Len()
	}
	cfg.logf(LogDebug, "Load: Done")
	return nil
}

// checkParams validates the arguments shared by Load and its file variants
// and returns the settable result slot.
func checkParams(cfg *Config, s *schema.Type, out any, count *int) (reflect.Value, error) {
	if cfg == nil {
		return reflect.Value{}, newError(CodeBadParamNullConfig, "", "config is nil")
	}
	if s == nil {
		return reflect.Value{}, newError(CodeBadParamNullSchema, "", "schema is nil")
	}
	if err := schema.Validate(s); err != nil {
		cfg.logf(LogError, "Load: %v", err)
		return reflect.Value{}, schemaError(err)
	}
	if !s.Has(schema.FlagPointer) {
		cfg.logf(LogError, "Load: Top level schema must have pointer flag")
		return reflect.Value{}, newError(CodeTopLevelNonPtr, "", "top-level %s lacks pointer flag", s.Kind)
	}
	if s.Kind == schema.KindSequence && count == nil {
		return reflect.Value{}, newError(CodeBadParamSeqCount, "", "top-level sequence needs a count")
	}

	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, newError(CodeBadParamNullData, "", "result slot must be a non-nil pointer, got %T", out)
	}
	slot := rv.Elem()
	if !slot.IsZero() {
		return reflect.Value{}, newError(CodeBadParamNullData, "", "result slot already holds a value")
	}
	if err := checkShape(s, slot.Type(), ""); err != nil {
		cfg.logf(LogError, "Load: %v", err)
		return reflect.Value{}, err
	}
	return slot, nil
}

type loader struct {
	cfg *Config
	mem Allocator
}

func (l *loader) read(node *yaml.Node, t *schema.Type, dest reflect.Value, path string) error {
	if node.Kind == yaml.AliasNode {
		if l.cfg.has(CfgNoAlias) {
			l.cfg.logf(LogError, "Load: Alias not allowed by config")
			return newError(CodeInvalidAlias, path, "alias *%s", node.Value)
		}
		node = node.Alias
	}

	if t.IsPointer() {
		if dest.Kind() != reflect.Pointer {
			return badTarget(path, t, dest)
		}
		if isNull(node) && t.IsOptional() {
			return nil
		}
		p := l.mem.New(dest.Type().Elem())
		dest.Set(p)
		return l.readValue(node, t, p.Elem(), path)
	}
	return l.readValue(node, t, dest, path)
}

func (l *loader) readValue(node *yaml.Node, t *schema.Type, dest reflect.Value, path string) error {
	switch t.Kind {
	case schema.KindMapping:
		return l.readMapping(node, t, dest, path)
	case schema.KindSequence, schema.KindSequenceFixed:
		return l.readSequence(node, t, dest, path)
	}

	if node.Kind != yaml.ScalarNode {
		l.cfg.logf(LogError, "Load: Expected scalar for %s at %s", t.Kind, displayPath(path))
		return newError(CodeUnexpectedEvent, path, "expected scalar, got %s", nodeKind(node))
	}
	return l.readScalar(node.Value, t, dest, path)
}

func (l *loader) readScalar(value string, t *schema.Type, dest reflect.Value, path string) error {
	switch t.Kind {
	case schema.KindInt:
		if !isKind(dest, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64) {
			return badTarget(path, t, dest)
		}
		n, err := strconv.ParseInt(value, 0, dest.Type().Bits())
		if err != nil {
			return l.invalidValue(path, "INT", value, err)
		}
		dest.SetInt(n)

	case schema.KindUint:
		if !isKind(dest, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64) {
			return badTarget(path, t, dest)
		}
		n, err := strconv.ParseUint(value, 0, dest.Type().Bits())
		if err != nil {
			return l.invalidValue(path, "UINT", value, err)
		}
		dest.SetUint(n)

	case schema.KindBool:
		if !isKind(dest, reflect.Bool) {
			return badTarget(path, t, dest)
		}
		b, ok := parseBool(value)
		if !ok {
			return l.invalidValue(path, "BOOL", value, nil)
		}
		dest.SetBool(b)

	case schema.KindFloat:
		if !isKind(dest, reflect.Float32, reflect.Float64) {
			return badTarget(path, t, dest)
		}
		f, err := parseFloat(value, dest.Type().Bits())
		if err != nil {
			return l.invalidValue(path, "FLOAT", value, err)
		}
		dest.SetFloat(f)

	case schema.KindString:
		if !isKind(dest, reflect.String) {
			return badTarget(path, t, dest)
		}
		if len(value) < t.Min {
			l.cfg.logf(LogError, "Load: STRING length < %d: %s", t.Min, value)
			return newError(CodeStringLengthMin, path, "length %d < %d", len(value), t.Min)
		}
		if t.Max != schema.Unlimited && len(value) > t.Max {
			l.cfg.logf(LogError, "Load: STRING length > %d: %s", t.Max, value)
			return newError(CodeStringLengthMax, path, "length %d > %d", len(value), t.Max)
		}
		dest.SetString(value)

	default:
		return newError(CodeBadTypeInSchema, path, "unexpected kind %s", t.Kind)
	}
	return nil
}

func (l *loader) invalidValue(path, kind, value string, cause error) error {
	l.cfg.logf(LogError, "Load: Invalid %s value: '%s'", kind, value)
	return &Error{Code: CodeInvalidValue, Path: path, Msg: fmt.Sprintf("invalid %s value %q", strings.ToLower(kind), value), Err: cause}
}

func (l *loader) readMapping(node *yaml.Node, t *schema.Type, dest reflect.Value, path string) error {
	if node.Kind != yaml.MappingNode {
		l.cfg.logf(LogError, "Load: Expected mapping at %s", displayPath(path))
		return newError(CodeUnexpectedEvent, path, "expected mapping, got %s", nodeKind(node))
	}
	if dest.Kind() != reflect.Struct {
		return badTarget(path, t, dest)
	}

	seen := make([]bool, len(t.Fields))
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind == yaml.AliasNode && !l.cfg.has(CfgNoAlias) {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			l.cfg.logf(LogError, "Load: Mapping key is not a scalar at %s", displayPath(path))
			return newError(CodeInvalidKey, path, "non-scalar key %s", nodeKind(keyNode))
		}

		key := keyNode.Value
		field, idx, ok := t.Lookup(key, l.cfg.has(CfgCaseInsensitive))
		if !ok {
			if l.cfg.has(CfgIgnoreUnknownKeys) {
				l.cfg.logf(LogDebug, "Load: Ignoring key: %s", key)
				continue
			}
			l.cfg.logf(LogError, "Load: Unexpected key: %s", key)
			return newError(CodeInvalidKey, path, "unexpected key %q", key)
		}
		if seen[idx] {
			l.cfg.logf(LogError, "Load: Mapping key already set: %s", key)
			return newError(CodeDuplicateKey, join(path, field.Key), "key %q repeated", key)
		}
		seen[idx] = true

		member := dest.FieldByName(field.MemberName())
		if !member.IsValid() || !member.CanSet() {
			return newError(CodeBadTarget, join(path, field.Key), "%s has no settable member %s", dest.Type(), field.MemberName())
		}

		l.cfg.logf(LogDebug, "Load: Reading key: %s", key)
		if err := l.read(valNode, field.Type, member, join(path, field.Key)); err != nil {
			return err
		}
	}

	for i, f := range t.Fields {
		if !seen[i] && !f.Type.IsOptional() {
			l.cfg.logf(LogError, "Load: Missing required mapping field: %s", f.Key)
			return newError(CodeMappingFieldMissing, path, "missing %q", f.Key)
		}
	}
	return nil
}

func (l *loader) readSequence(node *yaml.Node, t *schema.Type, dest reflect.Value, path string) error {
	if node.Kind != yaml.SequenceNode {
		l.cfg.logf(LogError, "Load: Expected sequence at %s", displayPath(path))
		return newError(CodeUnexpectedEvent, path, "expected sequence, got %s", nodeKind(node))
	}
	n := len(node.Content)

	if t.Kind == schema.KindSequenceFixed {
		if dest.Kind() != reflect.Array || dest.Len() != t.Min {
			return badTarget(path, t, dest)
		}
		if n != t.Min {
			l.cfg.logf(LogError, "Load: Sequence count %d does not match fixed size %d", n, t.Min)
			return newError(CodeSequenceFixedCount, path, "%d entries, want %d", n, t.Min)
		}
		for i, entry := range node.Content {
			if err := l.read(entry, t.Entry, dest.Index(i), index(path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	if dest.Kind() != reflect.Slice {
		return badTarget(path, t, dest)
	}
	if n < t.Min {
		l.cfg.logf(LogError, "Load: Sequence with too few entries: %d < %d", n, t.Min)
		return newError(CodeSequenceEntriesMin, path, "%d entries < %d", n, t.Min)
	}
	if t.Max != schema.Unlimited && n > t.Max {
		l.cfg.logf(LogError, "Load: Sequence with too many entries: %d > %d", n, t.Max)
		return newError(CodeSequenceEntriesMax, path, "%d entries > %d", n, t.Max)
	}
	if n == 0 {
		return nil
	}

	seq := l.mem.MakeSlice(dest.Type(), n)
	dest.Set(seq)
	for i, entry := range node.Content {
		if err := l.read(entry, t.Entry, dest.Index(i), index(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func badTarget(path string, t *schema.Type, dest reflect.Value) error {
	return newError(CodeBadTarget, path, "cannot bind %s into %s", t.Kind, dest.Type())
}

func isKind(v reflect.Value, kinds ...reflect.Kind) bool {
	for _, k := range kinds {
		if v.Kind() == k {
			return true
		}
	}
	return false
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

func parseFloat(s string, bits int) (float64, error) {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, bits)
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown node"
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
