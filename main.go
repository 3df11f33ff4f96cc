package main

import "github.com/stocksage/sage/cmd"

var version = "dev"

func main() {
	cmd.Version = version
	cmd.Execute()
}
