// Package debug wires optional introspection tooling onto a running
// CPU: a Graphviz dump of its register/pipeline object graph, and a
// live HTTP stats page for goroutine/heap/GC counters plus a CPU-cycle
// rate gauge.
package debug

import (
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"gbacpu/internal/cpu"
)

// DumpGraph renders c's object graph (registers, pipeline slots, bus
// reference) to a Graphviz dot file at path.
func DumpGraph(c *cpu.CPU, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	memviz.Map(f, c)
	return nil
}

// StartStatsView launches the live stats HTTP page in the background
// and registers a custom gauge reporting c's executed-cycle count.
func StartStatsView(c *cpu.CPU, addr string) {
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithTheme(viewer.ThemeWesteros))
	viewer.AddFunc("cpu_cycles", func() interface{} {
		return c.Cycles()
	})
	manager := statsview.New()
	go func() {
		_ = manager.Start()
	}()
}
