// Package registry implements persistence for the version → package ID
// registry other services read to pick the active package.
//
// The FileRepository stores the registry as JSON on disk, entries ordered by
// version descending, and exposes a Repository interface that the publish
// service depends on.
package registry
