/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	rootCmd := cobrau.PrepareRootCmd(
		"mapctl",
		"document type mapping inspection tool",
		args,
		ver,
		newFieldsCmd(),
		newObjectsCmd(),
		newMergeCmd(),
	)

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
