package main

import (
	"fmt"
	"os"

	"hrdesk/cmd/docsgen/docsgen"
)

func main() {
	if err := docsgen.Command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
