package main

import (
	"github.com/enviamsg/wa-relay/cmd"
)

func main() {
	cmd.Execute()
}
