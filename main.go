package main

import "github.com/greenmere/lorekeep/cmd"

func main() {
	cmd.Execute()
}
