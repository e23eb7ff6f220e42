// Package replay records a live video source into rolling fixed-length chunk
// files and plays back an arbitrary trailing window of that recording.
//
// It can be used through the replay CLI or embedded as a library. All media
// work is delegated to the ffmpeg toolchain (ffmpeg, ffprobe and ffplay),
// which must be installed.
//
// # Capture
//
//	r, err := replay.New(replay.Config{OutputDir: "./recordings"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Prepare(false); err != nil {
//	    log.Fatal(err)
//	}
//	// Blocks until ctx is cancelled.
//	if err := r.Record(ctx, 3); err != nil {
//	    log.Fatal(err)
//	}
//
// # Playback
//
// [Replay.Play] splices the last N seconds of the recording into a single
// file and opens it in ffplay. [Replay.Plan] returns the chunks and the
// inpoint that would be spliced without running ffmpeg or ffplay:
//
//	plan, err := r.Plan(ctx, 30)
//	for _, seg := range plan.Segments {
//	    fmt.Println(seg.Path, seg.Inpoint)
//	}
//
// The oldest chunk of a window usually contributes only its tail; that
// segment is the only one with a non-zero inpoint.
//
// # Events
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe the
// capture lifecycle. Handlers are called synchronously.
package replay
