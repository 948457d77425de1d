package main

import "github.com/pramsey-labs/ght/cmd/ghtinspect/cmd"

func main() {
	cmd.Execute()
}
