package main

import (
	"github.com/chemkit/sucos/pkg/cli"
)

func main() {
	cli.Execute()
}
