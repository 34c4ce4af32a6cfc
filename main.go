package main

import "github.com/genzspace/genzflow/cmd"

func main() {
	cmd.Execute()
}
