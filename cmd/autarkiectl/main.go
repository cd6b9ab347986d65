// Command autarkiectl is the CLI surface §6 describes: a fuzz
// subcommand that drives the core against the bundled sample type, plus
// stats and typemap read-only subcommands that inspect a prior run's
// output directory.
package main

func main() {
	execute()
}
