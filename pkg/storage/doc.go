// Package storage maps backup items onto the local directory tree and
// writes them atomically.
//
// The layout is
//
//	<root>/<username>/highlights/<title>/<timestamp>.<ext>
//	<root>/<username>/stories/<timestamp>.<ext>
//
// where <timestamp> is the capture time in UTC formatted as
// 2006-01-02_15-04-05_UTC. A file with the same base name and a .jpg or .mp4
// extension is the only signal that an item was already retrieved; no
// manifest or checksum is kept.
package storage
