// Package pixelroom turns a live camera frame into a pixelated room.
//
// # Overview
//
// Every tick the current frame is copied five times into a texture atlas, one
// copy per inner face of an open box: back wall, ceiling, floor, left and
// right walls. The box is rendered through a perspective camera looking in
// through the missing front face, and the render is reduced to a coarse grid
// of flat tiles (64×128 by default) that is painted over the display.
//
// # Quick Start
//
//	p, err := pixelroom.New(800, 1600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src, err := source.LoadStill("photo.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p.Tick(src)
//	p.SavePNG("room.png")
//
// # Frame Sources
//
// Anything implementing [FrameSource] can feed the pipeline. The source
// package provides still images, timed image sequences, a synthetic test card
// and source.Latest, a slot for frames produced on another goroutine.
// A source that is not ready is not an error: the display shows a dark gray
// placeholder and the next tick tries again.
//
// # Coordinate System
//
// The room uses canvas coordinates: X grows right, Y grows down, Z grows
// toward the viewer. The camera sits on the +Z axis looking at the origin.
//
// # Logging
//
// pixelroom is silent by default. See [SetLogger].
package pixelroom
