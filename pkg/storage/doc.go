// Package storage provides file management for downloaded post media.
//
// The storage package handles:
//   - Creating the output directory on demand
//   - Generating twitter_<kind>_<timestamp>.<ext> filenames with numeric
//     suffixes on within-run collisions
//   - Atomic streaming writes via temporary files and rename, so a failed
//     transfer never leaves a truncated file on disk
//
// Usage:
//
//	manager, err := storage.NewManager("downloads")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name := manager.ClaimFilename(models.KindVideo, "")
//	size, err := manager.Save(resp.Body, name)
package storage
