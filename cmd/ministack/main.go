// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package main implements the ministack command line driver.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/tebeka/atexit"

	"github.com/ezrec/ministack/cpu"
	"github.com/ezrec/ministack/device"
	"github.com/ezrec/ministack/emulator"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// demoProgram sums a length-prefixed array from data memory.
const demoProgram = `
PUSH0
SETIP

NEXT        ; read N, the element count
PUSH0       ; sum = 0
SWAP        ; [sum, N]

loop:
DUP
JZ end      ; N == 0 ends the loop

SWAP        ; [N, sum]
NEXT        ; [N, sum, x]
SWAP        ; [N, x, sum]
ADD         ; [N, sum+x]

SWAP        ; [sum+x, N]
PUSH1
SUB         ; [sum, N-1]
JMP loop

end:
POP         ; drop the exhausted count
OUT         ; emit the sum
HALT
`

type optionFlags struct {
	compile   string
	data      string
	prefixLen bool
	trace     bool
	hexOnly   bool
	maxSteps  int
	quiet     bool
	verbose   bool
}

func parseFlags() (options optionFlags) {
	flag.StringVar(&options.compile, "c", "", "assembly source file, '-' for stdin, empty for the built-in demo")
	flag.StringVar(&options.data, "d", "", "comma-separated initial data memory")
	flag.BoolVar(&options.prefixLen, "n", false, "prefix the data with its length")
	flag.BoolVar(&options.trace, "t", false, "print a per-step execution trace")
	flag.BoolVar(&options.hexOnly, "x", false, "print the assembled machine code and exit")
	flag.IntVar(&options.maxSteps, "s", emulator.MAX_STEPS, "step budget before aborting the run")
	flag.BoolVar(&options.quiet, "q", false, "perform operations quietly")
	flag.BoolVar(&options.verbose, "v", false, "verbose assembler logging")

	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "usage: ministack [options]\n\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	// Demo parity: no source and no data runs the array-summing sample.
	if options.compile == "" && options.data == "" {
		options.data = "5,-2,112,7"
		options.prefixLen = true
	}

	return
}

func printBanner(options optionFlags) {
	if !options.quiet {
		fmt.Println("[-------------------------------------]")
		fmt.Println("[ ministack - stack machine emulator  ]")
		fmt.Printf("[-------------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func createLogger(options optionFlags) *log.Logger {
	cfg := log.DefaultConfig()
	if options.quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func parseData(options optionFlags) (data []int, err error) {
	if options.data != "" {
		for _, field := range strings.Split(options.data, ",") {
			var value int
			value, err = strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				err = fmt.Errorf("data value '%v': %w", field, err)
				return
			}
			data = append(data, value)
		}
	}

	if options.prefixLen {
		data = append([]int{len(data)}, data...)
	}

	return
}

func sourceReader(options optionFlags) (input io.Reader, err error) {
	switch options.compile {
	case "":
		input = strings.NewReader(demoProgram)
	case "-":
		input = os.Stdin
	default:
		var inf *os.File
		inf, err = os.Open(options.compile)
		if err != nil {
			return
		}
		atexit.Register(func() { _ = inf.Close() })
		input = inf
	}

	return
}

func hexDump(code []byte) (out string) {
	parts := make([]string, len(code))
	for n, b := range code {
		parts[n] = fmt.Sprintf("%02X", b)
	}

	return strings.Join(parts, " ")
}

func emulate(logger *log.Logger, options optionFlags) (err error) {
	ctx := app.Context()

	data, err := parseData(options)
	if err != nil {
		return
	}

	input, err := sourceReader(options)
	if err != nil {
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = options.verbose
	emu.MaxSteps = options.maxSteps
	emu.Out = &device.Console{W: os.Stdout}

	if options.trace {
		trace := bufio.NewWriter(os.Stdout)
		atexit.Register(func() { _ = trace.Flush() })
		emu.Tracer = func(state cpu.StepState) {
			fmt.Fprintln(trace, state)
		}
	}

	err = emu.LoadData(data)
	if err != nil {
		return
	}

	err = emu.LoadSource(input)
	if err != nil {
		return
	}

	if !options.quiet || options.hexOnly {
		fmt.Printf("--- Machine code (hex) ---\n%v\n\n", hexDump(emu.Program.Bytes()))
	}
	if options.hexOnly {
		return
	}

	for more := true; more; {
		select {
		case <-ctx.Done():
			logger.Info("Operation cancelled")
			atexit.Exit(1)
		default:
		}

		more, err = emu.Step()
		if err != nil {
			return
		}
		if emu.Machine.Steps >= emu.MaxSteps && more {
			err = emulator.ErrStepLimit
			return
		}
	}

	if !options.quiet {
		fmt.Printf("\n--- Final machine state ---\n%v", emu.Machine)
	}

	return
}

func main() {
	options := parseFlags()

	logger := createLogger(options)
	printBanner(options)

	if err := emulate(logger, options); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
