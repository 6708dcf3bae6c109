// Package lsp is the editor-facing side of vela: a Session that keeps the
// open documents, re-checks them after edits and publishes the newest
// consistent snapshot, and a stdio JSON-RPC Server speaking a subset of
// the Language Server Protocol on top of it.
package lsp
