package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/lynxchess/lynx/pkg/engine"
	"github.com/lynxchess/lynx/pkg/uci"
)

const (
	name    = "Lynx"
	author  = "the Lynx authors"
	version = "1.0"
)

func main() {
	var console = flag.Bool("console", false, "play against the engine in the terminal")
	var moveTime = flag.Int("movetime", 3000, "engine move time in console mode, milliseconds")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)

	var eng = engine.NewEngine()
	var chess960 bool
	var options = uci.NewOptions(
		&uci.IntOption{Name: "Hash", Min: 4, Max: 1 << 12, Value: &eng.Hash},
		&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Threads},
		&uci.BoolOption{Name: "UCI_Chess960", Value: &chess960},
	)

	var protocol = uci.New(name, author, version, eng, options)
	if *console {
		if err := protocol.RunConsole(*moveTime); err != nil {
			logger.Fatal(err)
		}
		return
	}
	fmt.Printf("%v %v\n", name, version)
	protocol.Run(flag.Args())
}
