package main

import "scma-sync/cmd"

func main() {
	cmd.Execute()
}
