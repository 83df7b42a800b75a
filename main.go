// Command strata composes hierarchical configuration trees from a
// search path of framework, group, and override documents.
package main

import (
	"github.com/stratacfg/strata/internal/cmd"
)

func main() {
	cmd.Execute()
}
