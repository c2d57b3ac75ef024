/*
Milestones lays out historical milestones along a chevron-patterned timeline
and renders them as SVG, or as an HTML page whose markers open detail stories
in a modal overlay.

Usage:

	milestones render nz.yaml -o nz.html
	milestones list nz.yaml
	milestones move nz.yaml --id j_5 --to 500,150
	milestones tui nz.yaml -o nz.svg
*/
package main

import (
	"os"

	"github.com/dBitech/milestones/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
