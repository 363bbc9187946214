// Package procinfo samples resource usage of a running process.
package procinfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Summary aggregates the samples taken while a process was running.
type Summary struct {
	Samples    int
	PeakRSSMB  float64 // highest resident set size seen, in MB
	MaxCPU     float64 // highest CPU percentage seen
	NumThreads int32   // last observed thread count
}

// Sampler polls one process at a fixed interval until stopped.
type Sampler struct {
	proc     *process.Process
	interval time.Duration

	mu  sync.Mutex
	sum Summary

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSampler starts sampling the process with the given PID. The returned
// sampler runs until Stop is called.
func NewSampler(pid int32, interval time.Duration) (*Sampler, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	s := &Sampler{
		proc:     proc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()

	return s, nil
}

func (s *Sampler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// sample fetches one snapshot; metrics that fail (e.g. because the process
// just exited) are skipped
func (s *Sampler) sample() {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := false

	if cpuPercent, err := s.proc.CPUPercent(); err == nil {
		if cpuPercent > s.sum.MaxCPU {
			s.sum.MaxCPU = cpuPercent
		}
		taken = true
	}

	if memInfo, err := s.proc.MemoryInfo(); err == nil && memInfo != nil {
		rssMB := float64(memInfo.RSS) / 1024 / 1024
		if rssMB > s.sum.PeakRSSMB {
			s.sum.PeakRSSMB = rssMB
		}
		taken = true
	}

	if numThreads, err := s.proc.NumThreads(); err == nil {
		s.sum.NumThreads = numThreads
	}

	if taken {
		s.sum.Samples++
	}
}

// Stop ends sampling and returns the aggregated summary. Safe to call more
// than once.
func (s *Sampler) Stop() Summary {
	s.once.Do(func() {
		close(s.stop)
	})
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}
