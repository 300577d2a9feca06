// Package engine implements the batch transform over a directory tree.
//
// One run discovers every file matching a fixed basename (.env for
// encrypt and clean, .env.gpg for decrypt), applies the transform to each
// file independently, and aggregates the outcomes into a Result. A single
// file's failure never aborts the batch; it is logged, counted, and the
// batch moves on. Only configuration and precondition errors (such as a
// missing gpg binary) are returned to the caller.
//
// Discovery is a snapshot: clean shows the operator exactly the set of
// paths it will delete and never re-discovers between confirmation and
// deletion. Snapshots are sorted lexicographically by full path, so a
// given tree always produces the same batch order.
//
// The engine is sequential by design. File counts are small and operator
// driven, and the only blocking point is the clean confirmation prompt,
// which reads a single line from the injected input.
package engine
