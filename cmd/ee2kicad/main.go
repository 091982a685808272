package main

import "github.com/OpenTraceLab/ee2kicad/cmd/ee2kicad/cmd"

func main() {
	cmd.Execute()
}
