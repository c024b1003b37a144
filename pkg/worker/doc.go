// Package worker provides the cooperative worker lifecycle and barrier
// synchronization framework used by the conduit client.
//
// A Worker runs an implementer-supplied Task on its own goroutine: Setup once,
// then Tick on a coarse 100 ms interval until a stop flag rises or Tick asks to
// stop, then Teardown. The caller observes the lifecycle through latching
// started/stopped events.
//
// Stopping is cooperative. Each Worker watches a composite stop signal: the
// logical OR of its own internal flag (raised by Stop) and a caller-owned
// external Flag shared across the worker group. There is no forced interrupt;
// worst-case stop latency is one tick interval plus the Task's Tick time.
//
// Workers that share a Synch rendezvous at shutdown. Each submits a clean or
// unclean vote when it leaves its loop; if every vote is clean, all workers run
// their StopImminent hook and pass a second barrier before tearing down. A
// single unclean vote abandons the rendezvous and every worker exits
// immediately.
//
// # Usage
//
//	var stop worker.Flag
//	synch := worker.NewSynch()
//
//	w := worker.New("keepalive", task, logger)
//	started, err := w.Start(&stop, synch)
//	if err != nil || !started {
//	    // task Setup failed or a stop flag was already raised
//	}
//
//	// ... later ...
//	stop.Set()
//	w.Stop()
//
// The Synch and the external Flag must outlive every Worker started with them.
package worker
