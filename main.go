package main

import (
	"fmt"
	"os"

	"hrdesk/cmd/hrdesk"
)

func main() {
	if err := hrdesk.Command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
