// Package grubcounter recovers a single 32-bit scripting counter from a
// proprietary save-file container and from a live 32-bit game process.
//
// The two entry points are independent of each other: [DecodeSave] for the
// save-file container, and [Attach] plus [NewLocator] for the live process.
// Neither writes to its target; both are read-only inspectors.
package grubcounter
