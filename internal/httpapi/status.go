package httpapi

import (
	"io/fs"
	"net/http"
	"path/filepath"
	"runtime"
	"time"

	"github.com/alnah/go-mediakit/internal/sizefmt"
)

// Status handles /: a small health document with uptime, Go memory stats,
// and scratch-directory usage.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	a.writeJSON(w, http.StatusOK, map[string]any{
		"message": "mediakit up",
		"uptime":  time.Since(a.Started).Truncate(time.Second).String(),
		"status": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"heapAlloc":  sizefmt.Format(int64(mem.HeapAlloc)),
			"heapSys":    sizefmt.Format(int64(mem.HeapSys)),
			"totalAlloc": sizefmt.Format(int64(mem.TotalAlloc)),
			"diskUsage":  sizefmt.Format(a.scratchUsage()),
		},
	})
}

// scratchUsage sums the sizes of everything in the scratch root.
// Best-effort: unreadable entries count zero.
func (a *App) scratchUsage() int64 {
	var total int64
	_ = filepath.WalkDir(a.Store.Dir(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
