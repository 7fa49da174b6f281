// Command dumpx extracts a bounded number of matching posts from a large XML dump.
//
// Usage:
//
//	dumpx Posts.xml 100 --questions-only --min-score 10 --include-tags calculus -o topics.xml
//
// Exit status is 0 on success (including fewer matches than requested),
// 2 on a configuration error or missing input, and 1 on any other failure.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
