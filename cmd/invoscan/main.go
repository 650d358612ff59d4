package main

import "github.com/invoscan/invoscan/cmd/invoscan/cmd"

func main() {
	cmd.Execute()
}
