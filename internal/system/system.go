package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit so directory scans over large
// image batches don't trip the default on macOS/Linux.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warn().Err(err).Msg("could not read file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("could not raise file limit")
	} else {
		log.Debug().Uint64("limit", rLimit.Cur).Msg("open file limit raised")
	}
}

// FindLatestImage returns the most recently modified file with one of the
// given extensions in the directory (or the directory of the given file).
// Used when no explicit input is given.
func FindLatestImage(path string, extensions []string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}

	files, err := os.ReadDir(searchDir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(searchDir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no matching files in %s", searchDir)
	}

	return latestFile, nil
}

// perPageBytes estimates the working set of one page in flight: three float64
// entropy maps plus four RGBA frames (original, highlighted, mask, heatmap).
func perPageBytes(width, height int) uint64 {
	area := uint64(width) * uint64(height)
	return area*3*8 + area*4*4
}

// ClampWorkers bounds the requested worker count by CPU count and by how many
// page working sets fit in available memory, so large scans degrade to fewer
// workers instead of swapping.
func ClampWorkers(requested, width, height int) int {
	workers := requested
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debug().Err(err).Msg("memory probe failed, keeping requested workers")
		return workers
	}

	page := perPageBytes(width, height)
	if page == 0 {
		return workers
	}

	// Leave half of available memory for everything else
	budget := vm.Available / 2
	fit := int(budget / page)
	if fit < 1 {
		fit = 1
	}
	if workers > fit {
		log.Warn().
			Int("requested", workers).
			Int("clamped", fit).
			Uint64("available_mb", vm.Available/1024/1024).
			Msg("worker count reduced to fit memory")
		workers = fit
	}
	return workers
}
