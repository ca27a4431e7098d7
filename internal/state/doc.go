// Package state persists the accumulated resolution results across runs:
// three disjoint series-key mappings (confirmed/review/todo) stored as JSON
// documents, a per-run debug trace document, and the first-write-wins merge
// rule that makes repeated runs idempotent. The state directory is guarded
// by a file lock so concurrent runs cannot interleave writes.
package state
