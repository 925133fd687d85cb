// ABOUTME: Vector rendering package for oscilloscopes in X-Y mode
// ABOUTME: Turns line and point commands into stereo samples and plays them through a sink
// Package scope draws vector images on an oscilloscope in X-Y mode.
//
// The left audio channel deflects the beam horizontally and the right channel
// vertically. A Session collects drawing commands into a growable sample
// buffer, then seals it and hands a read-only snapshot to a pull-based sink,
// which loops the image for as long as playback runs.
//
// Coordinates are in 0..200 on both axes and map linearly to -1.0..1.0.
//
// Example:
//
//	out, _ := sink.New("oto")
//	session := scope.NewSession(scope.Config{Sink: out})
//	err := session.DrawAll(scope.Rect(20, 20, 180, 180)...)
//	err = session.DrawPoint(100, 100, 50)
//	err = session.Start(160000)
//	...
//	err = session.Stop()
//
// While playing, every draw returns ErrIllegalMutationWhilePlaying. Stop keeps
// the drawing unless Config.ClearOnStop is set.
package scope
