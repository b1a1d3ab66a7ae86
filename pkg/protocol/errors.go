package protocol

import "errors"

// ErrNotImplemented marks a declared capability that has no implementation
// wired in (the task node's "http" action, the pdf node's "store" output
// without an artifact store). Executors return it instead of silently
// succeeding so callers can tell "feature unbuilt" from "feature ran".
var ErrNotImplemented = errors.New("not implemented")
