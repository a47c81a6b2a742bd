package cmd

import (
	"fmt"
	"io"

	"github.com/NerdyHomeReOpen/Details/pkg/output"
	"github.com/NerdyHomeReOpen/Details/pkg/version"
)

func writeVersion(w io.Writer, tool, format string) error {
	info := version.GetBuildInfo()
	f, err := output.ParseFormat(format, output.FormatText)
	if err != nil {
		return err
	}
	switch f {
	case output.FormatJSON, output.FormatYAML:
		return output.WriteObject(w, f, info)
	default:
		_, err = fmt.Fprintln(w, info.Line(tool))
		return err
	}
}
