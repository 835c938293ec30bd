// Package schema describes target shapes for the binder.
//
// A schema is plain data: a tree of Type values naming a kind (scalar,
// mapping or sequence), flags, bounds and, for mappings, the fields that
// map a document key onto a Go struct member. The binder walks a document
// and a schema side by side to build a value, and walks the same schema to
// release it again, so the schema is the only type information either
// direction needs.
//
// # Building schemas in Go
//
//	sounds := schema.Sequence(schema.FlagDefault,
//	    schema.String(schema.FlagDefault, 0, schema.Unlimited),
//	    0, schema.Unlimited)
//	animal := schema.Mapping(schema.FlagDefault,
//	    schema.NewField("kind", schema.String(schema.FlagDefault, 0, schema.Unlimited)),
//	    schema.NewField("sounds", sounds),
//	)
//
// # Describing schemas in CUE
//
// LoadCUEFile compiles the same shapes from a CUE document:
//
//	kind:    "mapping"
//	pointer: true
//	fields: {
//	    cakes: {kind: "sequence", entry: {kind: "string"}}
//	}
//
// GoType synthesizes a struct type for such a schema, so documents can be
// bound without a hand-written target.
package schema
