package main

import (
	"os"

	"github.com/NerdyHomeReOpen/Details/pkg/cmd"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree and maps the outcome to an exit code. A
// panic escaping the commands is logged and turned into exit code 1.
func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			system.MustLogger(system.LogOptions{}).Errorw("Fatal error", "panic", r)
			code = 1
		}
	}()

	root := cmd.NewGhInitCommand(cmd.DefaultConfig())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
