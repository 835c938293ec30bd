// Package binder maps YAML documents onto Go values described by a schema.
//
// The binder is driven entirely by a *schema.Type: Load walks the document
// and the schema together and writes into a caller-owned result slot, and
// Free walks the same schema to release what Load allocated. Because the
// schema carries all the shape information, one generic Free works for any
// target, which is what lets test fixtures share a single cleanup path.
//
// # Result slots
//
// The top-level schema type must carry schema.FlagPointer. Callers pass a
// pointer to an empty slot:
//
//	var data *target
//	err := binder.LoadFile("basic.yaml", cfg, top, &data, nil)
//	defer binder.Free(cfg, top, &data, 0)
//
// Top-level sequences bind into a slice slot and report their length
// through the count parameter.
//
// # Errors
//
// Every failure is an *Error carrying a Code from a closed set. Use CodeOf
// to classify and Strerror for report text. A failed Load never writes the
// slot and never leaves allocations behind.
//
// # Memory accounting
//
// Config.Mem selects the Allocator. CountingAllocator records every live
// allocation, so tests can prove a load leaked nothing and a free released
// everything.
package binder
