// Package audit records completed batches as JSON lines.
//
// Every encrypt, decrypt, and clean run appends one entry with its
// aggregate counts to audit.jsonl under the user's config directory
// (override with ENVSEAL_AUDIT_LOG). Writes are best-effort: a failing
// audit write never fails the operation it describes.
package audit
