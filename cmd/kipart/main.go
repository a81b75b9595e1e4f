package main

import "github.com/OpenTraceLab/kipart/cmd/kipart/cmd"

func main() {
	cmd.Execute()
}
