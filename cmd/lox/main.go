// Lox CLI - scans source files and runs bytecode chunk images
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/lox/compiler"
	"github.com/chazu/lox/config"
	"github.com/chazu/lox/internal/logging"
	"github.com/chazu/lox/pkg/bytecode"
	"github.com/chazu/lox/server"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "Usage: lox [options] <command> [arguments]\n\n")
		fmt.Fprintf(w, "Commands:\n")
		fmt.Fprintf(w, "  tokens FILE               Print the tokens of a source file\n")
		fmt.Fprintf(w, "  run [-trace] [-disasm] IMAGE\n")
		fmt.Fprintf(w, "                            Load a chunk image and interpret it\n")
		fmt.Fprintf(w, "  dis IMAGE                 Disassemble a chunk image\n")
		fmt.Fprintf(w, "  demo [-trace] [-disasm] [-o IMAGE]\n")
		fmt.Fprintf(w, "                            Run the arithmetic sample chunk, or write it to IMAGE\n")
		fmt.Fprintf(w, "  lsp                       Start the language server on stdio\n")
		fmt.Fprintf(w, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  lox tokens hello.lox       # Dump tokens, exit 65 on lexical errors\n")
		fmt.Fprintf(w, "  lox demo -o demo.loxc      # Write the sample chunk image\n")
		fmt.Fprintf(w, "  lox run -trace demo.loxc   # Run it with a stack trace per instruction\n")
	}
}

// run is main without the process exit, so it can be driven from tests.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a lox.toml (default: search upward from the current directory)")
	verbose := fs.Bool("v", false, "Verbose logging (raises the configured verbosity by one)")
	fs.Usage = usage(stderr, fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitIOErr
	}

	verbosity := cfg.Log.Verbosity
	if *verbose {
		verbosity++
	}
	logging.Configure(verbosity, cfg.LogPath())
	log := logging.GetLogger("lox.cli")
	if cfg.Dir != "" {
		log.Infof("using %s from %s", config.FileName, cfg.Dir)
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	log.Debugf("command %s %v", cmd, rest)

	switch cmd {
	case "tokens":
		return tokensCommand(rest, stdout, stderr)
	case "run":
		return runCommand(rest, cfg, stdout, stderr)
	case "dis":
		return disCommand(rest, stdout, stderr)
	case "demo":
		return demoCommand(rest, cfg, stdout, stderr)
	case "lsp":
		return lspCommand(stderr)
	case "help":
		fs.Usage()
		return exitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

// loadConfig reads an explicit config file, or searches upward from the
// working directory. Without either it returns the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// tokensCommand handles `lox tokens FILE`.
func tokensCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: lox tokens FILE")
		return exitUsage
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitIOErr
	}

	errs, err := compiler.Dump(stdout, string(src))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitIOErr
	}
	if errs > 0 {
		fmt.Fprintf(stderr, "%s: %d lexical error(s)\n", args[0], errs)
		return exitDataErr
	}
	return exitOK
}

// runFlags are shared by `run` and `demo`; defaults come from [run] in lox.toml.
type runFlags struct {
	trace  *bool
	disasm *bool
}

func addRunFlags(fs *flag.FlagSet, cfg *config.Config) runFlags {
	return runFlags{
		trace:  fs.Bool("trace", cfg.Run.Trace, "Print the stack and each instruction before it executes"),
		disasm: fs.Bool("disasm", cfg.Run.Disassemble, "Disassemble the chunk before running it"),
	}
}

// runCommand handles `lox run [-trace] [-disasm] IMAGE`.
func runCommand(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rf := addRunFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: lox run [-trace] [-disasm] IMAGE")
		return exitUsage
	}

	path := fs.Arg(0)
	chunk, code := loadChunk(path, stderr)
	if chunk == nil {
		return code
	}
	return execute(chunk, filepath.Base(path), rf, stdout, stderr)
}

// disCommand handles `lox dis IMAGE`.
func disCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: lox dis IMAGE")
		return exitUsage
	}

	chunk, code := loadChunk(args[0], stderr)
	if chunk == nil {
		return code
	}
	chunk.DisassembleChunk(stdout, filepath.Base(args[0]))
	return exitOK
}

// demoCommand handles `lox demo [-trace] [-disasm] [-o IMAGE]`.
func demoCommand(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rf := addRunFlags(fs, cfg)
	output := fs.String("o", "", "Write the chunk image to this path instead of running it")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "Usage: lox demo [-trace] [-disasm] [-o IMAGE]")
		return exitUsage
	}

	chunk := demoChunk()
	if *output != "" {
		if err := bytecode.SaveImage(*output, chunk); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitIOErr
		}
		fmt.Fprintf(stdout, "Wrote %s (%d instructions, %d constants)\n", *output, chunk.Len(), chunk.ConstantCount())
		return exitOK
	}
	return execute(chunk, "test chunk", rf, stdout, stderr)
}

// lspCommand handles `lox lsp`.
func lspCommand(stderr io.Writer) int {
	if err := server.NewLSP().Run(); err != nil {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return exitIOErr
	}
	return exitOK
}

// demoChunk computes -((2.2 + 3.4) / 5.6) and returns it, all on line 123.
func demoChunk() *bytecode.Chunk {
	c := bytecode.NewChunk()
	c.WriteConstant(2.2, 123)
	c.WriteConstant(3.4, 123)
	c.WriteOp(bytecode.OpAdd, 123)
	c.WriteConstant(5.6, 123)
	c.WriteOp(bytecode.OpDivide, 123)
	c.WriteOp(bytecode.OpNegate, 123)
	c.WriteOp(bytecode.OpReturn, 123)
	return c
}

// loadChunk reads an image, reporting failures to stderr. On failure the
// chunk is nil and the exit code says whether the file or its contents were bad.
func loadChunk(path string, stderr io.Writer) (*bytecode.Chunk, int) {
	chunk, err := bytecode.LoadImage(path)
	if err == nil {
		return chunk, exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, bytecode.ErrBadImage) || errors.Is(err, bytecode.ErrInvalidChunk) {
		return nil, exitDataErr
	}
	return nil, exitIOErr
}

func execute(chunk *bytecode.Chunk, name string, rf runFlags, stdout, stderr io.Writer) int {
	if *rf.disasm {
		chunk.DisassembleChunk(stdout, name)
	}

	vm := bytecode.NewVM(chunk)
	vm.Out = stdout
	result, err := vm.Interpret(*rf.trace)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	switch result {
	case bytecode.InterpretOK:
		return exitOK
	case bytecode.InterpretCompileError:
		return exitDataErr
	default:
		return exitSoftware
	}
}
