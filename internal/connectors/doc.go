// Package connectors holds the adapters that read the outside world for the
// catalog services. The filesystem connector provides directory traversal
// and MIME classification for local trees.
package connectors
