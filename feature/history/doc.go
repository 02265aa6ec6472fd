// Package history keeps a journal of directory uploads.
//
// Each upload becomes a Run row (upload_runs table) created as "running" and
// closed as "succeeded" or "failed" with its file, byte, conflict and skip
// counts. The journal is optional and only exists when a database is configured.
//
// # HTTP Endpoints
//
//   - GET /history : Lists recent runs (supports ?limit=N).
//   - GET /history/:id : Returns a single run.
package history
