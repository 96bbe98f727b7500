// Command cimatrix generates CI job matrices from a declarative YAML file.
//
//	cimatrix generate -c matrix.yaml --format set-output
//	cimatrix validate -c matrix.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr, os.LookupEnv)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cimatrix: %v\n", err)
		os.Exit(1)
	}
}
