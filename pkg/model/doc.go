// Package model describes the base objects manipulated by solsync.
//
// The object model is composed of:
//
//	Bundle configurations:
//	  An entry of a spkl.json file, mapping the unique name of a solution
//	  held by the remote service to a package folder on disk.
//
//	Bundle identities:
//	  The unique name and version of a solution, as resolved from the remote
//	  service at the start of each synchronization cycle.
//
//	Async jobs:
//	  A handle on a long-running remote operation (e.g. an import),
//	  and the terminal outcome observed when polling it.
package model
