// Package model defines the values an extraction produces.
//
// A [Table] holds the extracted records in document order together with the
// header used to key them and the table caption, if any. Tables are built
// once and never modified, so they can be handed to other goroutines freely.
//
// # Records
//
// A [Record] is either positional (an ordered list of cell values) or keyed
// (header name to value, in header order):
//
//	r := model.Keyed([]string{"name", "qty"}, []string{"apple"})
//	r.Get("name") // "apple", true
//	r.Get("qty")  // "", false: the row was shorter than the header
//
// Records are values; [Record.Set] and [Record.Delete] return modified
// copies, which makes them convenient inside record transforms.
//
// # Export
//
// Tables render themselves as Markdown ([Table.ToMarkdown]), CSV
// ([Table.ToCSV]), tab separated text ([Table.GetText]) and JSON.
package model
