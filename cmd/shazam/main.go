package main

import "github.com/emrgen/shazam/cmd"

func main() {
	cmd.Execute()
}
