package main

import "renextract/cmd/renextract-cli/cmd"

func main() {
	cmd.Execute()
}
