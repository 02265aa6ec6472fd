// Package upload mirrors a local directory tree into a blob-storage container.
//
// The Walker lists one directory at a time from an explicit worklist: regular
// files become blobs named by their path relative to the walk root (segments
// joined with "/"), subdirectories are queued with an extended prefix. The
// container is checked, and created when missing, once before the first upload.
// Symbolic links and special files are skipped. The first unhandled error stops
// the walk.
//
// The Service wraps the walker with request validation and the optional run
// journal; the Handler exposes it over HTTP.
//
// # HTTP Endpoints
//
//   - POST /upload : Uploads a directory below one of the allowed roots.
//   - GET /upload/containers/:name : Reports whether a container exists.
package upload
