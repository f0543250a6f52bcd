package main

import "unilist/cmd"

func main() {
	cmd.Execute()
}
