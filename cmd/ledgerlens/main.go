package main

import "github.com/ledgerlens/ledgerlens/cmd/ledgerlens/cmd"

func main() {
	cmd.Execute()
}
