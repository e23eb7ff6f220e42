// Package domain contains the core entities and value objects for replay.
//
// This package is the innermost layer of the application. It has no
// dependencies on infrastructure concerns (subprocesses, file system, logging)
// and contains only the rules that hold for chunks and splice plans.
//
// # Entities
//
//   - [Chunk]: one fixed-duration media file of the rolling recording
//   - [Plan]: an ordered list of [Segment] values describing how to rebuild a
//     trailing playback window from chunks
//   - [SubprocessError]: the diagnostic carried by a failed external tool
//
// # Invariants
//
// A Plan is ordered oldest to newest. At most one Segment is partial and, when
// present, it is the first one.
package domain
