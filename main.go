package main

import (
	"wwjtop/cmd"
)

func main() {
	cmd.Execute()
}
