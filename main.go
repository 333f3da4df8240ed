package main

import "github.com/sonder-art/rtorneo-wordle-p26/cmd"

func main() {
	cmd.Execute()
}
