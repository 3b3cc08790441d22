package main

import (
	"fmt"
	"os"
	"sync"
	"time"
)

func printDryRunBanner() {
	if !dryRun {
		return
	}

	fmt.Println("=== DRY RUN - no changes will be made ===")
	fmt.Println()
}

func printSummary(lines ...string) {
	fmt.Println("=== Summary ===")
	for _, line := range lines {
		fmt.Println(line)
	}
}

func printDryRunHint() {
	if !dryRun {
		return
	}

	fmt.Println()
	fmt.Println("Run without --dry-run to apply changes.")
}

// progressReporter prints an elapsed-time heartbeat to stderr while a
// long walk runs, so large trees don't look hung.
type progressReporter struct {
	once sync.Once
	quit chan struct{}
	done chan struct{}
}

func startProgress(label string) *progressReporter {
	p := &progressReporter{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	go p.loop(label, time.Now())

	return p
}

func (p *progressReporter) loop(label string, started time.Time) {
	defer close(p.done)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fmt.Fprintf(os.Stderr, "%s... %s elapsed\n", label, time.Since(started).Round(time.Second))
		case <-p.quit:
			return
		}
	}
}

// Stop is idempotent and waits for the heartbeat goroutine to exit.
func (p *progressReporter) Stop() {
	p.once.Do(func() {
		close(p.quit)
		<-p.done
	})
}
