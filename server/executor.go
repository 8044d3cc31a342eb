package server

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"
)

// executor runs submitted work one task at a time on a single ants worker.
// Every handler that reads or writes the store goes through it, so the
// store only ever sees one caller.
type executor struct {
	pool *ants.Pool
}

func newExecutor() (*executor, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}
	return &executor{pool: pool}, nil
}

// run blocks until fn has finished or ctx is done. A task whose context
// ended before it reached the worker is skipped; one already running is
// left to finish. A panic in fn is returned as an error.
func (e *executor) run(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		err := e.pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("task panicked: %v", r)
				}
			}()
			if err := ctx.Err(); err != nil {
				done <- err
				return
			}
			done <- fn()
		})
		if err != nil {
			done <- err
		}
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *executor) release() {
	e.pool.Release()
}
