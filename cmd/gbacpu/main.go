package main

import (
	"flag"
	"log"
	"os"
	"time"

	"gbacpu/internal/bus"
	"gbacpu/internal/cpu"
	"gbacpu/internal/debug"
	"gbacpu/rom"
	"gbacpu/util/dbg"
)

func main() {
	romPath := flag.String("rom", "", "path to a GBA ROM image")
	biosPath := flag.String("bios", "", "path to a GBA BIOS image")
	memvizPath := flag.String("memviz", "", "dump the CPU object graph to this Graphviz dot file and exit")
	statsviewAddr := flag.String("statsview", "", "serve a live stats HTTP page at this address (e.g. :18066)")
	flag.Parse()

	if *romPath == "" || *biosPath == "" {
		log.Fatal("both -rom and -bios are required")
	}

	cartridge, err := rom.Load(*romPath)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}
	biosImage, err := os.ReadFile(*biosPath)
	if err != nil {
		log.Fatalf("loading BIOS: %v", err)
	}

	mmu := bus.New(biosImage, cartridge.Data)
	core := cpu.NewCPU(mmu)
	core.Reset(0x00000000)

	if *memvizPath != "" {
		if err := debug.DumpGraph(core, *memvizPath); err != nil {
			log.Fatalf("memviz: %v", err)
		}
		return
	}

	if *statsviewAddr != "" {
		debug.StartStatsView(core, *statsviewAddr)
	}

	ticks := 0
	last := time.Now()
	for {
		core.Tick()
		ticks++

		if time.Since(last) >= time.Second {
			dbg.Printf("cycles: %d, ticks/s: %d\n", core.Cycles(), ticks)
			ticks = 0
			last = time.Now()
		}
	}
}
