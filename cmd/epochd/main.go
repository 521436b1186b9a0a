package main

import (
	"github.com/droplets-system/epoch/cmd/epochd/cmd"
)

func main() {
	cmd.Execute()
}
