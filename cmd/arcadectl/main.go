// Command arcadectl is the debugging CLI for arcade.
//
// Usage:
//
//	arcadectl                  Show help
//	arcadectl events           JSONL event log viewer
//	arcadectl stats            Session statistics from the event log
//	arcadectl search <query>   One-shot search through the gateway
package main

import (
	"fmt"
	"os"
)

const usage = `arcadectl: arcade debug CLI

Usage:
  arcadectl <command> [flags]

Commands:
  events      JSONL event log viewer
  stats       Session, paging and typeahead statistics from the event log
  search      Run one browse session against the gateway and print the view

Environment:
  ARCADE_GATEWAY_URL   Search gateway base URL (default from ~/.arcade/config.json)
  ARCADE_PAGE_SIZE     Page size for search

Run 'arcadectl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "events":
		runEvents()
	case "stats":
		runStats()
	case "search":
		runSearch()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "arcadectl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
