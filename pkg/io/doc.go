// Package io persists fetched documents and rendered artifact sets.
//
// # Saved Documents
//
// A saved document is the indented JSON body of a file fetch. Compiling
// against one skips the network entirely, which makes repeated artifact
// tuning free once the document is on disk and keeps fixtures for tests
// human-readable. [WriteDocument] and [ReadDocument] work against any
// io.Writer/io.Reader; [ExportDocument] and [ImportDocument] wrap them for
// file paths.
//
// Round trips are faithful: decoding applies the same implicit defaults
// (visibility, opacity) the client applies to live responses, so a compile
// from a saved document produces byte-identical artifacts.
//
// # Artifact Sets
//
// [WriteArtifacts] lays a rendered artifact set down in one directory under
// the conventional names a downstream coding agent expects:
//
//	design-spec.md
//	design-tokens.css        (extension follows the token format)
//	content.md
//	implementation-plan.md
//	tree.dot
package io
