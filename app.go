package main

import "github.com/masmgr/truckfactor-go/cmd"

func main() {
	cmd.Run()
}
