package main

import (
	"github.com/c9s/autoinvest/pkg/cmd"
)

func main() {
	cmd.Execute()
}
