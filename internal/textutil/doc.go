// Package textutil provides small text helpers shared by the server, CLI, and
// renderers: upload file name sanitization, filesystem-safe tokens, and title
// casing for lesson names.
package textutil
