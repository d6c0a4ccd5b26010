package main

import (
	"pwmfand/cmd"
)

func main() {
	cmd.Execute()
}
