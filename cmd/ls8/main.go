package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/Issac909/Sprint-Challenge--Computer-Architecture/cpu"
	"github.com/Issac909/Sprint-Challenge--Computer-Architecture/emulator"
)

// Exit codes reported to the shell.
const (
	EXIT_OK       = 0 // Program reached HLT.
	EXIT_FAULT    = 1 // Usage error, bad image, or runtime fault.
	EXIT_NOTFOUND = 2 // Program file not found.
)

func main() {
	var assemble bool
	var output string
	var verbose bool

	flag.BoolVar(&assemble, "a", false, "Treat the input as LS-8 assembly source")
	flag.StringVar(&output, "o", "", "Assemble only; write the memory image to this file ('-' for stdout)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %v [-a] [-v] [-o image] <program>\n", os.Args[0])
		os.Exit(EXIT_FAULT)
	}

	path := flag.Arg(0)
	inf, err := os.Open(path)
	if err != nil {
		log.Printf("%v: %v", path, err)
		if errors.Is(err, fs.ErrNotExist) {
			os.Exit(EXIT_NOTFOUND)
		}
		os.Exit(EXIT_FAULT)
	}
	defer inf.Close()

	// Assemble-only mode: emit the memory image and stop.
	if len(output) != 0 {
		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Printf("%v: %v", path, err)
			os.Exit(EXIT_FAULT)
		}

		ouf := os.Stdout
		if output != "-" {
			ouf, err = os.Create(output)
			if err != nil {
				log.Printf("%v: %v", output, err)
				os.Exit(EXIT_FAULT)
			}
			defer ouf.Close()
		}

		err = prog.Image(ouf)
		if err != nil {
			log.Printf("%v: %v", output, err)
			os.Exit(EXIT_FAULT)
		}
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Output = os.Stdout

	if assemble {
		err = emu.LoadSource(inf)
	} else {
		err = emu.LoadImage(inf)
	}
	if err != nil {
		log.Printf("%v: %v", path, err)
		os.Exit(EXIT_FAULT)
	}

	_, err = emu.Run()
	if err != nil {
		log.Print(err)
		os.Exit(EXIT_FAULT)
	}
}
