package internal

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rm-hull/fastblur/fastblur"
)

type BatchOptions struct {
	InDir     string
	OutDir    string
	Workers   int
	Radius    int
	Blur      fastblur.Options
	Overwrite bool
}

type Processor struct {
	startTime time.Time
	endTime   time.Time
	opts      BatchOptions
	maxJobs   int
	jobs      chan string
	results   chan error
	files     []string
}

// NewBatchProcessor collects the PNG files directly inside opts.InDir and
// prepares a pool of workers to blur them into opts.OutDir.
func NewBatchProcessor(opts BatchOptions) (*Processor, error) {
	if opts.Workers < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	startTime := time.Now()

	files, err := listPNGs(opts.InDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", opts.InDir, err)
	}
	log.Printf("Directory %s contains %d PNG files", opts.InDir, len(files))

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if same, err := sameDir(opts.InDir, opts.OutDir); err != nil {
		return nil, err
	} else if same {
		return nil, errors.New("input and output directories must differ")
	}

	return &Processor{
		startTime: startTime,
		opts:      opts,
		maxJobs:   -1,
		jobs:      make(chan string),
		results:   make(chan error),
		files:     files,
	}, nil
}

func listPNGs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

func sameDir(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(infoA, infoB), nil
}

// DispatchJobs sends file names to the jobs channel for processing by
// workers. When maxJobs is greater than zero, it limits the number of jobs
// dispatched, hence set to -1 to dispatch all jobs.
func (p *Processor) DispatchJobs() {
	go func() {
		for n, file := range p.files {
			if p.maxJobs > 0 && n >= p.maxJobs {
				break
			}
			p.jobs <- file
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Starting blurring files with pool size: %d", p.opts.Workers)

	for i := range p.opts.Workers {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	for name := range p.jobs {
		err := p.processFile(name)
		if err != nil {
			err = fmt.Errorf("worker %d: %s: %w", i, name, err)
		}
		p.results <- err
	}
}

func (p *Processor) processFile(name string) error {
	filename := filepath.Join(p.opts.OutDir, name)

	// if the file already exists, skip processing
	if !p.opts.Overwrite {
		if _, err := os.Stat(filename); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	start := time.Now()
	src := fastblur.FromPath(filepath.Join(p.opts.InDir, name))
	data, err := fastblur.BlurSource(src, p.opts.Radius, p.opts.Blur)
	if err != nil {
		return fmt.Errorf("failed to blur image: %w", err)
	}
	log.Printf("Blurring %s took %d ms", name, time.Since(start).Milliseconds())

	return WriteFileAtomic(filename, data)
}

func (p *Processor) Wait() []error {
	waitFor := len(p.files)
	if p.maxJobs > 0 && p.maxJobs < waitFor {
		waitFor = p.maxJobs
	}
	log.Printf("Waiting for %d files to be blurred", waitFor)

	errs := make([]error, 0, 10)
	for range waitFor {
		if err := <-p.results; err != nil {
			errs = append(errs, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All files blurred in %s (errors=%d)", elapsed, len(errs))
	return errs
}

// RunBatch blurs every PNG in opts.InDir once and returns the per-file
// failures. The returned error is only set when the batch could not start.
func RunBatch(opts BatchOptions) ([]error, error) {
	p, err := NewBatchProcessor(opts)
	if err != nil {
		return nil, err
	}
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait(), nil
}
