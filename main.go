package main

import (
	"clubdesk/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
