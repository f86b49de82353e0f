package ballpark

import _ "embed"

// Version is the release of the module, stamped from the VERSION file.
//
//go:embed VERSION
var Version string
