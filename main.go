package main

import (
	"github.com/foodgram/foodgram/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Execute()
}
