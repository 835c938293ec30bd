package harness

import (
	"embed"
	"io/fs"

	"github.com/roach88/schemabind/internal/binder"
	"github.com/roach88/schemabind/internal/report"
	"github.com/roach88/schemabind/internal/schema"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// Fixtures holds the documents the scenarios load.
var Fixtures = mustSub(fixtures, "fixtures")

// BadPath is loaded by file_load_bad_path and must never exist.
var BadPath = "/schemabind/path/shouldn't/exist.yaml"

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type animal struct {
	Kind   string   `json:"kind"`
	Sounds []string `json:"sounds"`
}

type basicTarget struct {
	Animals []animal `json:"animals"`
	Cakes   []string `json:"cakes"`
}

// animalInts declares sounds as integers, which basic.yaml does not hold.
type animalInts struct {
	Kind   string `json:"kind"`
	Sounds []int  `json:"sounds"`
}

type basicIntsTarget struct {
	Animals []animalInts `json:"animals"`
	Cakes   []string     `json:"cakes"`
}

// basicSchema describes basic.yaml with sounds entries of the given type.
func basicSchema(sound *schema.Type) *schema.Type {
	animalSchema := schema.Mapping(schema.FlagDefault,
		schema.NewField("kind", schema.String(schema.FlagDefault, 0, schema.Unlimited)),
		schema.NewField("sounds", schema.Sequence(schema.FlagPointer, sound, 0, schema.Unlimited)),
	)
	return schema.Mapping(schema.FlagPointer,
		schema.NewField("animals", schema.Sequence(schema.FlagPointer, animalSchema, 0, schema.Unlimited)),
		schema.NewField("cakes", schema.Sequence(schema.FlagPointer,
			schema.String(schema.FlagDefault, 0, schema.Unlimited), 0, schema.Unlimited)),
	)
}

func stringEntry() *schema.Type {
	return schema.String(schema.FlagDefault, 0, schema.Unlimited)
}

type liveCounter interface {
	Live() int
}

// liveAllocs returns the allocator's live count, or -1 if it keeps none.
func liveAllocs(cfg *binder.Config) int {
	if c, ok := cfg.Mem.(liveCounter); ok {
		return c.Live()
	}
	return -1
}

// expectFailure checks that err has code want, that the slot stayed empty
// and that the failed load left nothing allocated.
func expectFailure(tc *report.Case, cfg *binder.Config, err error, want binder.Code, empty bool, before int) bool {
	if code := binder.CodeOf(err); code != want {
		return tc.Fail(binder.Strerror(code))
	}
	if !empty {
		return tc.Fail("result slot written on failure")
	}
	if after := liveAllocs(cfg); after != before {
		return tc.Failf("%d allocation(s) leaked by failed load", after-before)
	}
	return tc.Pass()
}

// Loads basic.yaml into nested mappings and sequences.
func testFileLoadBasic(rc *report.Report, cfg *binder.Config) bool {
	var data *basicTarget
	top := basicSchema(stringEntry())
	f := &Fixture{Data: &data, Config: cfg, Schema: top}

	tc := rc.Start("file_load_basic", f.Cleanup)
	defer tc.Close()

	if err := binder.LoadFS(Fixtures, "basic.yaml", cfg, top, &data, nil); err != nil {
		return tc.Fail(binder.Strerror(binder.CodeOf(err)))
	}
	if len(data.Animals) != 2 || len(data.Cakes) != 3 {
		return tc.Failf("got %d animals and %d cakes, want 2 and 3", len(data.Animals), len(data.Cakes))
	}
	return tc.Pass()
}

// Loads a top-level sequence, which reports its entry count.
func testFileLoadSequence(rc *report.Report, cfg *binder.Config) bool {
	var data []string
	count := 0
	top := schema.Sequence(schema.FlagPointer, stringEntry(), 0, schema.Unlimited)
	f := &Fixture{Data: &data, Count: &count, Config: cfg, Schema: top}

	tc := rc.Start("file_load_sequence", f.Cleanup)
	defer tc.Close()

	if err := binder.LoadFS(Fixtures, "cakes.yaml", cfg, top, &data, &count); err != nil {
		return tc.Fail(binder.Strerror(binder.CodeOf(err)))
	}
	if count != 3 {
		return tc.Failf("got %d entries, want 3", count)
	}
	return tc.Pass()
}

// Loads a file that does not exist.
func testFileLoadBadPath(rc *report.Report, cfg *binder.Config) bool {
	type target struct {
		Cakes string
	}
	var data *target
	top := schema.Mapping(schema.FlagPointer)
	f := &Fixture{Data: &data, Config: cfg, Schema: top}

	tc := rc.Start("file_load_bad_path", f.Cleanup)
	defer tc.Close()

	before := liveAllocs(cfg)
	err := binder.LoadFile(BadPath, cfg, top, &data, nil)
	return expectFailure(tc, cfg, err, binder.CodeFileOpen, data == nil, before)
}

// Loads basic.yaml with a schema that expects integer sounds.
func testFileLoadBasicInvalid(rc *report.Report, cfg *binder.Config) bool {
	var data *basicIntsTarget
	top := basicSchema(schema.Int(schema.FlagDefault))
	f := &Fixture{Data: &data, Config: cfg, Schema: top}

	tc := rc.Start("file_load_basic_invalid", f.Cleanup)
	defer tc.Close()

	before := liveAllocs(cfg)
	err := binder.LoadFS(Fixtures, "basic.yaml", cfg, top, &data, nil)
	return expectFailure(tc, cfg, err, binder.CodeInvalidValue, data == nil, before)
}

// Fails part way through a sequence of separately allocated entries.
func testFileLoadPartialInvalid(rc *report.Report, cfg *binder.Config) bool {
	var data []*int
	count := 0
	top := schema.Sequence(schema.FlagPointer, schema.Int(schema.FlagPointer), 0, schema.Unlimited)
	f := &Fixture{Data: &data, Count: &count, Config: cfg, Schema: top}

	tc := rc.Start("file_load_partial_invalid", f.Cleanup)
	defer tc.Close()

	before := liveAllocs(cfg)
	err := binder.LoadFS(Fixtures, "numbers.yaml", cfg, top, &data, &count)
	return expectFailure(tc, cfg, err, binder.CodeInvalidValue, data == nil && count == 0, before)
}
