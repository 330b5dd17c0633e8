package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/snakearena/pkg/protocol"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show which snakearena build is running",
		Long: `Show which snakearena build is running.

Servers and clients from different builds may disagree on the wire
protocol; compare this output on both ends when a client cannot join.
Use --short in scripts.`,
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout(), short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")

	return cmd
}

func writeVersion(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, version)
		return
	}
	fmt.Fprint(w, banner)
	fmt.Fprintf(w, "\n  snakearena %s (%s, built %s)\n", version, commit, date)
	fmt.Fprintf(w, "  codecs      %s\n", strings.Join(protocol.Subprotocols(), ", "))
	fmt.Fprintf(w, "  runtime     %s %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
