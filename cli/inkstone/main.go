package main

import (
	"os"

	inkstonecmder "github.com/inkstoneco/inkstone/cmd/inkstone"
)

func main() {
	cmd := inkstonecmder.NewInkstoneCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
