// Package backup downloads the highlight reels or stories of one Instagram
// account into a local directory tree.
//
// A run resolves the target profile, lists its containers (highlight
// reels, or the active story reel plus archived story days) and walks the
// items of each container. Items already on disk are skipped without a
// network call when skip-existing is on, so re-running a backup only
// fetches what is new. A failing item never aborts its container and a
// failing container never aborts the run; both are counted in the returned
// statistics.
package backup
