// Package main is the entry point for the hoopstats CLI, which answers
// ranking questions over an NBA box-score store.
package main

import "github.com/pable/hoopstats/cmd"

func main() {
	cmd.Execute()
}
