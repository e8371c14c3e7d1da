// snapcheck validates a world snapshot file and prints what it holds.
//
//	snapcheck <world.json>
//
// Exit status is 1 for an unreadable or invalid snapshot and 2 when the
// document is valid but names components or resources this build does not
// register.
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/l1jgo/ecsgraph/internal/component"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: snapcheck <world.json>")
		os.Exit(1)
	}
	os.Exit(check(os.Args[1]))
}

func check(path string) int {
	snap, err := snapshot.ReadFile(path)
	switch {
	case errors.Is(err, snapshot.ErrVersionMismatch):
		fmt.Fprintf(os.Stderr, "%s: unsupported version: %v\n", path, err)
		return 1
	case errors.Is(err, snapshot.ErrMalformed):
		fmt.Fprintf(os.Stderr, "%s: malformed: %v\n", path, err)
		return 1
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	components := snapshot.NewComponentRegistry()
	resources := snapshot.NewResourceRegistry()
	component.Register(components, resources)

	counts := map[string]int{}
	for _, e := range snap.Entities {
		for name := range e.Components {
			counts[name]++
		}
	}

	fmt.Printf("version    %d\n", snap.Version)
	fmt.Printf("entities   %d\n", len(snap.Entities))
	unknown := 0
	for _, name := range sortedKeys(counts) {
		mark := ""
		if !components.Has(name) {
			mark = "  (unregistered)"
			unknown++
		}
		fmt.Printf("  %-20s %d%s\n", name, counts[name], mark)
	}
	fmt.Printf("resources  %d\n", len(snap.Resources))
	for _, name := range sortedKeys(snap.Resources) {
		mark := ""
		if !resources.Has(name) {
			mark = "  (unregistered)"
			unknown++
		}
		fmt.Printf("  %s%s\n", name, mark)
	}
	if unknown > 0 {
		return 2
	}
	return 0
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
