package main

import (
	"github.com/MeKo-Tech/chartfile/cmd/chartfile/cmd"
)

func main() {
	cmd.Execute()
}
