// Package preflight provides readiness checks for the filesystem paths,
// binaries, and external services Bartender depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and GET /api/health reports it, so
//     an operator sees an unwritable work directory before the first compose.
//   - The CLI "bartender status" command renders the same results and can
//     additionally probe the language model with CheckLLM.
package preflight
