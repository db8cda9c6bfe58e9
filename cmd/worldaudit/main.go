// Command worldaudit loads an IR JSON dump produced by worldgen and
// checks it against the static testable properties from spec.md §8,
// independent of the process that generated it. Grounded on
// cmd/gardener/main.go's run-a-cycle-and-report shape, reduced from a
// recurring ticker loop to a single load-then-report pass.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/talgya/worldgen/internal/auditor"
	"github.com/talgya/worldgen/internal/wgerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("worldaudit", flag.ContinueOnError)
	path := fs.String("ir", "world.json", "path to the IR JSON dump to audit")
	if err := fs.Parse(args); err != nil {
		return wgerr.KindConfig.ExitCode()
	}

	dump, err := auditor.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "worldaudit: %v\n", err)
		return wgerr.KindIO.ExitCode()
	}

	report := auditor.Audit(dump)
	for _, c := range report.Checks {
		symbol := "PASS"
		if !c.Passed {
			symbol = "FAIL"
		}
		fmt.Printf("[%s] %-24s %s\n", symbol, c.Name, c.Detail)
	}

	if !report.Passed() {
		fmt.Fprintf(os.Stderr, "worldaudit: %d of %d checks failed\n", report.FailureCount(), len(report.Checks))
		return wgerr.KindInvariant.ExitCode()
	}

	fmt.Println("worldaudit: all checks passed")
	return 0
}
