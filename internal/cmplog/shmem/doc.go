// Package shmem provides the System V shared memory segment that carries the
// comparison map between the fuzzer and the instrumented target.
//
// The fuzzer creates a segment, exports its id to the target through the
// __AFL_CMPLOG_SHM_ID environment variable and binds a cmpmap.Map over the
// attached bytes. The instrumentation runtime in the target attaches the same
// segment and writes comparisons into it.
package shmem
