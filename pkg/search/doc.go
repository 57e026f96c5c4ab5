// Package search runs the anytime covering-walk search.
//
// A covering walk starts at the start node, ends at the end node and visits
// every node of the graph at least once. The search enumerates candidate
// walks depth first and reports every accepted walk that is strictly shorter
// than the best one seen so far.
//
// # Architecture
//
// One run is a closed loop of single-purpose roles connected by channels:
//
//	             ┌──────────────┐
//	   ┌────────►│   Frontier   │─────────┐
//	   │         └──────────────┘         │ Pop
//	   │ Push                             ▼
//	┌──┴─────────┐                 ┌──────────────┐
//	│ Collection │                 │ Distribution │
//	└────────────┘                 └──────┬───────┘
//	   ▲                                  │ in
//	   │ out      ┌──────────────┐        │
//	   └──────────│  Worker × N  │◄───────┘
//	              └──┬────────┬──┘
//	       solutions │        │ samples (lossy)
//	                 ▼        ▼
//	        ┌──────────┐   ┌──────────┐
//	        │ Solution │   │   Log    │
//	        │   Sink   │   │   Sink   │
//	        └──────────┘   └──────────┘
//
// The frontier is the only shared mutable state. Workers never block on the
// log sink; samples are dropped when its buffer is full. The solution channel
// is unbuffered so a worker hands an accepted walk directly to the sink.
//
// The end node is absorbing: a walk that reaches it is either accepted, when
// it covers the graph, or discarded as a dead end. It is never extended.
//
// # Termination
//
// A run has no natural end. It returns when its context is canceled or when a
// role fails, for example on a spill or results file write error.
package search
