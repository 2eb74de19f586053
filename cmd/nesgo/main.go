// Command nesgo runs the cycle-accurate NES core against a cartridge
// image. It drives the master clock frame by frame and, with -trace, logs
// each drained frame; it does not open
// a window or play audio — those are out of scope for this core and are
// left to a host that consumes Emulator.Framebuffer.
package main

import (
	"flag"
	"log"

	"github.com/bdwalton/nesgo/emulator"
	"github.com/bdwalton/nesgo/internal/config"
)

var (
	romFile = flag.String("rom", "", "Path to an iNES ROM image to run.")
	region  = flag.String("region", "ntsc", "Timing region: ntsc or pal.")
	trace   = flag.Bool("trace", false, "Log illegal opcodes and bus-decode misses.")
	frames  = flag.Int("frames", 0, "Number of frames to run, or 0 to run until killed.")
)

func parseRegion(s string) config.Region {
	if s == "pal" || s == "PAL" {
		return config.PAL
	}
	return config.NTSC
}

func main() {
	flag.Parse()

	if *romFile == "" {
		log.Fatalf("nesgo: -rom is required")
	}

	cfg := config.Config{
		Region:  parseRegion(*region),
		ROMPath: *romFile,
		Trace:   *trace,
	}

	emu, err := emulator.New(cfg, cfg.ROMPath, nil)
	if err != nil {
		log.Fatalf("nesgo: %v", err)
	}

	for i := 0; *frames == 0 || i < *frames; i++ {
		emu.DrainFrame()
		if *trace {
			log.Printf("nesgo: frame %d drained", i)
		}
	}
}
