package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Render writes the summary to w as color-accented console lines.
func (s Summary) Render(w io.Writer) {
	header := color.New(color.Bold, color.FgCyan).Sprint("sortd")
	fmt.Fprintf(w, "\n%s %s\n\n", header, color.New(color.Faint).Sprint("• run summary"))

	fmt.Fprintf(w, "  %s %d of %d files copied (%d bytes)\n",
		color.New(color.FgGreen).Sprint("✓"), s.Succeeded, s.Total, s.Bytes)

	if s.Failed > 0 {
		fmt.Fprintf(w, "  %s %d failed\n", color.New(color.FgRed).Sprint("✗"), s.Failed)
		for _, f := range s.Failures {
			fmt.Fprintf(w, "      %s %s\n", f.Path, color.New(color.Faint).Sprint(f.Reason))
		}
	}

	if len(s.Extensions) > 0 {
		fmt.Fprintf(w, "  %s %d extension directories: %s\n",
			color.New(color.FgCyan).Sprint("•"),
			len(s.Extensions),
			strings.Join(s.Extensions, ", "))
	}
}
