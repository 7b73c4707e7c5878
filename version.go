package routes64

import _ "embed"

// Version is the release version of routes64.
//
//go:embed VERSION
var Version string
