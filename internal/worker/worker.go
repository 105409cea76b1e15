package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Task is a unit of deferred work, e.g. removing an uploaded object from
// storage after its database row is gone, or invalidating a cache entry.
type Task func(ctx context.Context) error

type Pool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	closing atomic.Bool
}

func NewPool(workers, queueSize int) *Pool {
	p := &Pool{
		tasks: make(chan Task, queueSize),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		if err := task(context.Background()); err != nil {
			log.Printf("background task failed: %v", err)
		}
	}
}

// Submit enqueues a task. Tasks are dropped, with a log line, when the pool
// is shutting down or the queue is full; deferred work here is always
// best-effort cleanup.
func (p *Pool) Submit(t Task) {
	if p.closing.Load() {
		log.Println("task submitted during shutdown, dropping")
		return
	}
	select {
	case p.tasks <- t:
	default:
		log.Println("task queue full, dropping task")
	}
}

// Shutdown stops accepting tasks and waits for in-flight work to finish.
func (p *Pool) Shutdown() {
	p.closing.Store(true)
	close(p.tasks)
	p.wg.Wait()
}
