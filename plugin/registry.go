package plugin

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sovrin-foundation/sovtoken/hostsdk"
)

// Command handles are allocated from a single process-wide counter and
// never reused, so a stale callback can never hit a live continuation.
var commandHandleCounter atomic.Int32

func nextCommandHandle() int32 {
	return commandHandleCounter.Add(1)
}

// oneShotRegistry maps a command handle to a continuation that runs exactly
// once. The mutex guards only the move in and the move out; continuations
// run outside the lock.
type oneShotRegistry[T any] struct {
	mu sync.Mutex
	m  map[int32]T
}

func (r *oneShotRegistry[T]) put(handle int32, closure T) {
	r.mu.Lock()
	if r.m == nil {
		r.m = make(map[int32]T)
	}
	r.m[handle] = closure
	r.mu.Unlock()
}

func (r *oneShotRegistry[T]) take(handle int32) (T, bool) {
	r.mu.Lock()
	closure, ok := r.m[handle]
	delete(r.m, handle)
	r.mu.Unlock()
	return closure, ok
}

var (
	ecCallbacks       oneShotRegistry[func(hostsdk.ErrorCode)]
	ecStringCallbacks oneShotRegistry[func(hostsdk.ErrorCode, string)]
)

// closureToCbEc registers a one-shot completion closure and returns the
// command handle plus the callback to hand to the host. A callback for a
// handle with no registered continuation is a broken contract and panics.
func closureToCbEc(closure func(hostsdk.ErrorCode)) (int32, hostsdk.ECCallback) {
	handle := nextCommandHandle()
	ecCallbacks.put(handle, closure)

	return handle, func(commandHandle int32, err hostsdk.ErrorCode) {
		cl, ok := ecCallbacks.take(commandHandle)
		if !ok {
			panic(fmt.Sprintf("no continuation registered for command handle %d", commandHandle))
		}
		cl(err)
	}
}

// closureToCbEcString is the string-result variant of closureToCbEc.
func closureToCbEcString(closure func(hostsdk.ErrorCode, string)) (int32, hostsdk.StringCallback) {
	handle := nextCommandHandle()
	ecStringCallbacks.put(handle, closure)

	return handle, func(commandHandle int32, err hostsdk.ErrorCode, result string) {
		cl, ok := ecStringCallbacks.take(commandHandle)
		if !ok {
			panic(fmt.Sprintf("no continuation registered for command handle %d", commandHandle))
		}
		cl(err, result)
	}
}

// dropEcStringCallback removes a continuation whose host call failed
// synchronously and will therefore never fire.
func dropEcStringCallback(handle int32) {
	ecStringCallbacks.take(handle)
}

// dropEcCallback is dropEcStringCallback for bare completion callbacks.
func dropEcCallback(handle int32) {
	ecCallbacks.take(handle)
}
