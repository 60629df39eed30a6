// Package coro reconstructs the logical call stacks of suspended
// coroutines in a halted target process.
//
// A suspended coroutine's stack is not a contiguous region of any
// thread: most of its logical frames live on the heap as a chain of
// state-machine objects (continuations), each holding a captured
// program location, spilled locals and a link to the continuation it
// resumes into. Package coro walks that chain through the narrow
// remote-object protocol of package remote and merges the result with
// live physical frames where a thread is halted inside resumption
// machinery.
//
// Two reconstruction paths exist. The direct path starts from a
// continuation reference and needs nothing from the target beyond the
// concurrency library itself. The snapshot path queries the optional
// in-process instrumentation library for every tracked coroutine,
// including creation stacks and coroutines not currently parked on any
// continuation reachable from a thread.
//
// Nothing here mutates the target and nothing survives a resume:
// every handle is valid only for the suspend point it was read at.
package coro
