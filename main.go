package main

import "github.com/Lattice-Labs/lattice/cmd"

func main() {
	cmd.Execute()
}
