package starlark

import (
	"sync"

	"go.starlark.net/starlark"
)

// DefaultMaxSteps bounds the work one check call may do before it is
// cancelled.
const DefaultMaxSteps = 1_000_000

// ThreadPool manages a pool of Starlark threads for concurrent rule
// evaluation. Files are linted in parallel, so each check call borrows its
// own thread.
type ThreadPool struct {
	mu       sync.Mutex
	threads  []*starlark.Thread
	maxSize  int
	maxSteps uint64
	printFn  func(thread *starlark.Thread, msg string)
}

// NewThreadPool creates a thread pool holding at most maxSize idle threads.
// printFn receives the output of print() calls; nil discards it.
func NewThreadPool(maxSize int, maxSteps uint64, printFn func(*starlark.Thread, string)) *ThreadPool {
	if maxSize <= 0 {
		maxSize = 10 // default pool size
	}
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	if printFn == nil {
		printFn = func(_ *starlark.Thread, _ string) {}
	}
	return &ThreadPool{
		threads:  make([]*starlark.Thread, 0, maxSize),
		maxSize:  maxSize,
		maxSteps: maxSteps,
		printFn:  printFn,
	}
}

// Get retrieves a thread from the pool or creates a new one.
// The thread name is used for error reporting.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.threads); n > 0 {
		thread := p.threads[n-1]
		p.threads = p.threads[:n-1]
		thread.Name = name
		thread.Steps = 0
		return thread
	}

	thread := &starlark.Thread{Name: name, Print: p.printFn}
	thread.SetMaxExecutionSteps(p.maxSteps)
	return thread
}

// Put returns a thread to the pool for reuse. Threads that failed must not
// be returned, since a cancelled thread stays cancelled.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of idle threads in the pool.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}
