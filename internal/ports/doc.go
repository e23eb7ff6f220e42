// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [ChunkStore]: lists and maintains the chunk directory
//   - [ChunkWatcher]: reports chunk files as the capture writer creates them
//   - [DurationProber]: reads the duration of a media file
//   - [Remuxer]: stream-copies a media file into a fresh container
//   - [SegmentWriter]: records a live source into numbered chunks
//   - [Splicer]: joins the segments listed in a concat file
//   - [Presenter]: plays a media file
//   - [PlanWriter]: persists a splice plan as a concat list
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system, fsnotify, the ffmpeg toolchain and zerolog.
package ports
