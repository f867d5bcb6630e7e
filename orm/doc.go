// Package orm is the entity operations layer used by repositories. It turns
// the simplified query form ("name = :name", "from Person where ...") with
// named parameters into Bun queries and executes them.
//
// Errors raised by Bun or the driver are returned unchanged; Classify helps
// callers tell syntax, binding and connectivity failures apart.
package orm
