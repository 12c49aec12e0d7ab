// Flavornet - ingredient networks and embedding-guided recipe generation.
//
// Flavornet builds flavor and recipe co-occurrence networks from ingredient
// tables, scores ingredient pairings, and generates recipes by sampling
// ingredient embeddings.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/flavornet/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
