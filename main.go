package main

import (
	"github.com/gddload/gddload/cmd"
	"github.com/gddload/gddload/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
