// Command farmboard serves the farm dashboard views from an in-memory session
// seeded from embedded fixtures, a blob store, SQLite, or Postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"farmboard/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

// run executes one command and returns the process exit code: 0 on success,
// 2 when a record is missing or input is invalid, 1 otherwise.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return 0
	}
	printError(stderr, err)
	var verr domain.ValidationError
	if domain.IsNotFound(err) || errors.As(err, &verr) {
		return 2
	}
	return 1
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "farmboard: %v\n", err)
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	keys := make([]string, 0, len(verr.Problems))
	for k := range verr.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, verr.Problems[k])
	}
}
