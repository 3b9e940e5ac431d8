// Package filesystem provides types.FS implementations for hangar.
//
// NewOS returns the production implementation backed by the real OS
// filesystem. NewAferoFS wraps an afero filesystem, which lets tests for
// pure parsing code run against an in-memory tree. Note that afero's
// MemMapFs has no real symlink or permission support, so anything
// exercising symlinks or the permission-repair path must use NewOS with a
// temp directory.
package filesystem
