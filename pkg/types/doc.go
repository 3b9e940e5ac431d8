// Package types contains the shared types used across hangar: the
// filesystem interface, the mod data model, and the progress reporter
// contract. It has no dependencies on other hangar packages so that any
// package can import it.
package types
