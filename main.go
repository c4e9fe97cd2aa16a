package main

import (
	"os"

	"github.com/shinyvision/vimagento/cmd"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
