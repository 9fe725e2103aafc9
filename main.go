package main

import "github.com/relcut/relcut/cmd"

func main() {
	cmd.Execute()
}
