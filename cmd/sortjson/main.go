package main

import (
	"os"

	"github.com/NerdyHomeReOpen/Details/pkg/cmd"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			system.MustLogger(system.LogOptions{}).Errorw("Fatal error", "panic", r)
			code = 1
		}
	}()

	root := cmd.NewSortJSONCommand(cmd.DefaultConfig())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
