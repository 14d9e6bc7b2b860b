package main

import "github.com/bitebank/ordercore/cmd"

func main() {
	cmd.Execute()
}
