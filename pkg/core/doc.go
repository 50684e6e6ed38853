// Package core drives bundle synchronization cycles.
//
// An unpack cycle pulls a bundle from the remote service into its package folder:
//
//	resolve -> export -> extract into a temporary folder -> replace the package folder
//
// A pack-and-upload cycle pushes the package folder to the remote service:
//
//	resolve -> increment version (optional) -> pack -> import -> await the import job -> publish
//
// Every cycle owns its own temporary area. Cycles on the same package folder never overlap.
package core
