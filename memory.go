package main

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

const samplingInterval = 10 * time.Millisecond

var rssBytesFunc = rssBytes

// measurePeakResidentMemory runs fn while polling the resident set size.
// It returns fn's wall time in seconds and the highest RSS observed, which
// is at least the RSS before fn started.
func measurePeakResidentMemory(fn func() error) (seconds float64, peak float64, err error) {
	peak = rssBytesFunc()

	var mu sync.Mutex
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(samplingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				current := rssBytesFunc()
				mu.Lock()
				if current > peak {
					peak = current
				}
				mu.Unlock()
			case <-stop:
				return
			}
		}
	}()

	start := time.Now()
	err = fn()
	seconds = time.Since(start).Seconds()
	close(stop)
	wg.Wait()

	return seconds, peak, err
}

// rssBytes reports the resident set size of this process, or 0 when the
// platform does not expose it.
func rssBytes() float64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return float64(mem.RSS)
}
