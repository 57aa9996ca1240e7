package main

import "github.com/dotcommander/listingscore/cmd"

func main() {
	cmd.Execute()
}
