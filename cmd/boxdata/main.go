// Command boxdata edits typed records attached to animation hitboxes.
package main

import "github.com/mesh-intelligence/boxdata/internal/cli"

func main() {
	cli.Execute()
}
