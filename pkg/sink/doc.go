// ABOUTME: Pull-based audio sink package
// ABOUTME: Provides the Sink interface and oto, malgo, PortAudio and memory backends
// Package sink provides pull-based audio outputs.
//
// A sink owns a playback device and periodically calls a PullFunc from its own
// real-time thread to obtain interleaved float32 frames. The callback must fill
// the slice it is given and return without blocking.
//
// Backends:
//   - oto: ebitengine/oto, float32 little-endian player
//   - malgo: miniaudio via gen2brain/malgo
//   - portaudio: gordonklaus/portaudio (build with -tags portaudio)
//   - memory: in-process sink driven by Pump, for tests and headless runs
//
// Example:
//
//	out, err := sink.New("oto")
//	err = out.Open(sink.Config{SampleRate: 44100, Channels: 2, FramesPerPeriod: 800})
//	err = out.Start(func(frames []float32) { ... })
//	err = out.Stop()
//	err = out.Close()
package sink
