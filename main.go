package main

import "github.com/mselser95/etherdelta-client/cmd"

func main() {
	cmd.Execute()
}
