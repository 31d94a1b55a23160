// Package filesystem walks local directory trees and classifies file
// content for the indexer.
//
// Traversal uses filepath.WalkDir. A symlinked root is followed and its
// entries are reported under the path given. Below the root, symbolic links
// to directories are skipped and symbolic links to files are yielded and
// hashed through the link. Named pipes, sockets and device nodes are never
// yielded: opening them would block or read unbounded data.
package filesystem
