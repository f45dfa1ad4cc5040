package main

import "github.com/mediagrab/mediagrab/cmd"

func main() {
	cmd.Execute()
}
