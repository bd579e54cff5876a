// Package sample holds the setup shared by the programs under cmd/:
// resource lookup, positional arguments and the run banner.
package sample

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// ResourceDirEnv names the environment variable holding the resource
// directory
const ResourceDirEnv = "PDFSAMPLES_RESOURCE_DIR"

// DefaultResourceDir is used when ResourceDirEnv is unset, relative to the
// sample's working directory
const DefaultResourceDir = "../../Resources/"

// ResourceDir returns the directory the sample inputs live under
func ResourceDir() string {
	if dir := os.Getenv(ResourceDirEnv); dir != "" {
		return dir
	}
	return DefaultResourceDir
}

// Input returns the path of a bundled sample input file
func Input(name string) string {
	return filepath.Join(ResourceDir(), "Sample_Input", name)
}

// Args are the positional arguments of a sample
type Args struct {
	values  []string
	verbose bool
	logger  *log.Logger
}

// Get returns argument i, or def when fewer arguments were given
func (a *Args) Get(i int, def string) string {
	if i < len(a.values) && a.values[i] != "" {
		return a.values[i]
	}
	return def
}

// Verbose reports whether -v was given
func (a *Args) Verbose() bool {
	return a.verbose
}

// Logf logs progress when -v was given
func (a *Args) Logf(format string, v ...any) {
	if a.verbose {
		a.logger.Printf(format, v...)
	}
}

// parseArgs parses the sample command line, without the program name
func parseArgs(name string, argv []string, stderr io.Writer) (*Args, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Log progress")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	return &Args{
		values:  fs.Args(),
		verbose: *verbose,
		logger:  log.New(stderr, "", log.LstdFlags),
	}, nil
}

// run prints the banner and runs fn with the parsed arguments
func run(name string, argv []string, stdout, stderr io.Writer, fn func(*Args) error) error {
	fmt.Fprintf(stdout, "%s sample:\n", name)
	args, err := parseArgs(name, argv, stderr)
	if err != nil {
		return err
	}
	return fn(args)
}

// Run prints "<name> sample:", runs fn with the command line arguments and
// exits with status 1 if it fails
func Run(name string, fn func(*Args) error) {
	if err := run(name, os.Args[1:], os.Stdout, os.Stderr, fn); err != nil {
		log.Fatalf("%s failed: %v", name, err)
	}
}
