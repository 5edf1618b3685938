package main

import (
	"dirmirror/cmd"
)

func main() {
	cmd.Execute()
}
