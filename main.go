package main

import "github.com/optirust-go/scheduler/cmd"

func main() {
	cmd.Execute()
}
