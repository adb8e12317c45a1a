package main

import (
	"fmt"
	"io"
	"os"
)

// loggerGen returns a two-level progress logger. The returned func prints the
// full message in verbose mode; otherwise it prints the optional short form
// (typically a single "." per upload). Quiet mode prints nothing at all,
// errors go through warn instead.
func loggerGen(out ...io.Writer) func(...string) {
	w := io.Writer(os.Stdout)
	if len(out) > 0 {
		w = out[0]
	}

	return func(msg ...string) {
		if opts.quiet || len(msg) == 0 {
			return
		}
		if opts.verbose {
			fmt.Fprintln(w, msg[0])
			return
		}
		if len(msg) > 1 {
			fmt.Fprint(w, msg[1])
		}
	}
}

// warn prints to stderr regardless of quiet/verbose settings.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
