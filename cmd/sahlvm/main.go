// Command sahlvm runs a compiled bytecode image: program <bytecode-file>.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"sahlvm/internal/bytecode"
	"sahlvm/internal/natives"
	"sahlvm/internal/telemetry"
	"sahlvm/internal/vm"
	"sahlvm/internal/vmerr"
)

func main() {
	trace := flag.Bool("trace", false, "print an opcode trace to stderr and enable the GC summary log line")
	telemetryDB := flag.String("telemetry-db", "", "optional sqlite path recording GC cycles and task lifecycle events")
	telemetryWS := flag.String("telemetry-ws", "", "optional host:port to serve live stats over a websocket (/stats)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <bytecode-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *trace, *telemetryDB, *telemetryWS); err != nil {
		vmerr.Fatal(err)
	}
}

func run(path string, trace bool, telemetryDB, telemetryWS string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return vmerr.New(vmerr.KindImage, "reading %s: %v", path, err)
	}

	img, err := bytecode.Decode(raw)
	if err != nil {
		return vmerr.New(vmerr.KindImage, "decoding %s: %v", path, err)
	}

	var tracer vm.Tracer
	if trace || telemetryDB != "" || telemetryWS != "" {
		rec, err := telemetry.Open(telemetryDB, telemetryWS, trace)
		if err != nil {
			return err
		}
		defer rec.Close()
		tracer = rec
	}

	log.SetFlags(0)
	machine := vm.New(img, natives.Default(), os.Stdout, tracer)
	if trace {
		machine.SetTrace(os.Stderr)
	}
	return machine.Run()
}
