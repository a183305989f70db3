package internal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

// SignalAwareContext returns a context that gets closed once a given signal is retrieved.
// By default, the following signals are handled: syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP
func SignalAwareContext(ctx context.Context, sig ...os.Signal) context.Context {
	c := make(chan os.Signal, 1)
	if len(sig) == 0 {
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	} else {
		signal.Notify(c, sig...)
	}
	signalCtx, cancel := context.WithCancel(ctx)

	go func() {
		select {
		case <-ctx.Done():
			// normal shutdown, quit go routine
		case <-c:
			cancel()
		}

		signal.Stop(c)
		close(c)
	}()

	return signalCtx
}

// AssertNoError panics if the given error is not nil.
func AssertNoError(err error) {
	if err != nil {
		panic(err)
	}
}

// UniqueStringSlice removes duplicate entries from the given slice, keeping the first occurrence.
func UniqueStringSlice(slice []string) []string {
	keys := make(map[string]struct{}, len(slice))
	unique := make([]string, 0, len(slice))

	for _, entry := range slice {
		if _, ok := keys[entry]; ok {
			continue
		}
		keys[entry] = struct{}{}
		unique = append(unique, entry)
	}

	return unique
}

// TruncateString shortens the given string to at most max runes.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
