package tool

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dispatcher executes a batch of tool calls against a toolbox.
type Dispatcher struct {
	timeout time.Duration
}

// NewDispatcher builds a dispatcher applying timeout to every call. A zero
// timeout leaves calls bounded only by the executors' own HTTP timeouts.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{timeout: timeout}
}

// DispatchAll runs every call concurrently and returns one execution per call,
// indexed by submission order. Failures never escape a single call.
func (d *Dispatcher) DispatchAll(ctx context.Context, hook Hook, iteration int, toolbox *Toolbox, creds Credentials, calls []Call) []Execution {
	if hook == nil {
		hook = NopHook{}
	}
	executions := make([]Execution, len(calls))

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			executions[i] = d.dispatch(ctx, hook, iteration, i, toolbox, creds, call)
			return nil
		})
	}
	_ = g.Wait()

	return executions
}

func (d *Dispatcher) dispatch(ctx context.Context, hook Hook, iteration, index int, toolbox *Toolbox, creds Credentials, call Call) Execution {
	event := ToolCallEvent{
		Iteration: iteration,
		Index:     index,
		CallID:    call.ID,
		Name:      call.Name,
		Arguments: call.Arguments,
	}
	callCtx := hook.OnToolCallStart(ctx, event)

	start := time.Now()
	result := d.invoke(callCtx, toolbox, creds, call)
	event.Result = result
	event.Duration = time.Since(start)

	hook.OnToolCallFinish(callCtx, event)

	status := ExecutionStatusCompleted
	if result.IsError() {
		status = ExecutionStatusFailed
	}
	return Execution{
		Iteration: iteration,
		CallID:    call.ID,
		ToolName:  call.Name,
		Arguments: call.Arguments,
		Result:    result,
		Status:    status,
		Duration:  event.Duration,
	}
}

func (d *Dispatcher) invoke(ctx context.Context, toolbox *Toolbox, creds Credentials, call Call) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failed("function %s failed unexpectedly: %v", call.Name, r)
		}
	}()

	if call.ArgumentError != nil {
		return Failed("could not parse arguments for %s: %v", call.Name, call.ArgumentError)
	}

	b, ok := toolbox.lookup(call.Name)
	if !ok {
		return Failed("unknown function %q", call.Name)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	result = b.executor.Execute(ctx, call.Name, call.Arguments, creds[b.executor.Service()])
	if result.IsError() && ctx.Err() != nil {
		return Failed("function %s did not complete: %s", call.Name, result.ErrorMessage())
	}
	return result
}
