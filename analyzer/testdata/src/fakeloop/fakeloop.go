// Work around module issues. The analyzer matches the call syntactically, so
// a stub with the right name and shape is enough.
package eagerloop

import "context"

type Scheduler struct{}

type Task struct{}

type EagerHandle struct{}

func Go(ctx context.Context, s *Scheduler, body func(ctx context.Context) (int, error)) *Task {
	return &Task{}
}

func Invoke(ctx context.Context, s *Scheduler, body func(ctx context.Context) (int, error)) *EagerHandle {
	return &EagerHandle{}
}
