package main

import "github.com/notargets/spsr/cmd"

func main() {
	cmd.Execute()
}
