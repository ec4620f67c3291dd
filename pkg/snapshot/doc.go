// Package snapshot serializes mind maps to and from portable formats.
//
// # JSON Formats
//
// The export format is the bare node tree, as written by [MarshalTree],
// [WriteJSON] and [ExportJSON]:
//
//	{
//	  "id": "1",
//	  "text": "Root Node",
//	  "children": [
//	    {"id": "2", "text": "new node", "lineStyle": {"style": "dashed"}, "children": []}
//	  ]
//	}
//
// Node fields:
//   - id, text: required
//   - children: ordered list of nodes (stacking order), always present
//   - style, lineStyle: optional; missing fields fall back to defaults
//   - meta: freeform object; keys starting with "_" are never written
//
// Stores and editable files use a document that also records the current
// selection ([Marshal], [ExportDocument]):
//
//	{"version": 1, "current": "2", "root": {...}}
//
// Both forms are accepted on import.
//
// # Round Trip
//
// [FromMap] and [ToMap] convert between live maps and snapshots. Ids are
// preserved and the id counter continues past the highest numeric id, so a
// restored map keeps assigning fresh ids.
//
// # Outlines
//
// [ReadOutline] builds a map from a hand-written YAML outline by replaying
// appends, so ids are assigned exactly as if the nodes had been clicked in:
//
//	text: Project
//	children:
//	  - Design
//	  - text: Build
//	    children: [Backend, Frontend]
package snapshot
