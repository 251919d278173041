// Package room renders the open-fronted room box: five textured quads viewed
// through a perspective camera placed on the +Z axis.
//
// World coordinates follow the canvas convention: +X right, +Y down, +Z toward
// the viewer. The box is centered on the origin and has no front face.
package room

import (
	"math"

	"github.com/gogpu/pixelroom/internal/atlas"
	"github.com/gogpu/pixelroom/internal/geom"
)

// Params holds the room proportions and camera settings.
type Params struct {
	// HeightRatio is the room height relative to min(displayW, displayH).
	HeightRatio float64
	// DepthRatio is the room depth relative to min(displayW, displayH).
	DepthRatio float64

	FOV  float64 // vertical field of view in radians
	Near float64
	Far  float64

	// EdgeStretch collapses the depth axis of the floor, ceiling and side
	// walls onto the outermost texel line of their cell, streaking the frame
	// edges toward the viewer instead of showing a full copy.
	EdgeStretch bool
}

// DefaultParams returns the reference proportions: a room 1.25 high and
// 1.60 deep in units of the shorter viewport side, seen through a 60° lens.
func DefaultParams() Params {
	return Params{
		HeightRatio: 1.25,
		DepthRatio:  1.60,
		FOV:         math.Pi / 3,
		Near:        1,
		Far:         5000,
	}
}

// Box is the room box, stored as half-extents.
type Box struct {
	HW, HH, HD float64
}

// Width returns the full box width.
func (b Box) Width() float64 { return 2 * b.HW }

// Height returns the full box height.
func (b Box) Height() float64 { return 2 * b.HH }

// Depth returns the full box depth.
func (b Box) Depth() float64 { return 2 * b.HD }

// BoxFor sizes the room for a viewport. The back wall keeps the camera's
// aspect ratio; height and depth scale with the shorter viewport side.
func BoxFor(displayW, displayH int, cameraAspect float64, p Params) Box {
	s := float64(min(displayW, displayH))
	h := s * p.HeightRatio
	w := h * cameraAspect
	d := s * p.DepthRatio
	return Box{HW: w / 2, HH: h / 2, HD: d / 2}
}

// Camera is a perspective camera on the Z axis looking at the origin.
type Camera struct {
	FOV, Aspect, Near, Far float64
	Eye                    geom.Vec3
}

// CameraFor places the camera so that a plane displayH tall at the origin
// exactly fills the vertical field of view.
func CameraFor(displayW, displayH int, p Params) Camera {
	z := (float64(displayH) / 2) / math.Tan(p.FOV/2)
	return Camera{
		FOV:    p.FOV,
		Aspect: float64(displayW) / float64(displayH),
		Near:   p.Near,
		Far:    p.Far,
		Eye:    geom.V3(0, 0, z),
	}
}

// ViewProjection returns the combined world-to-clip transform.
func (c Camera) ViewProjection() geom.Mat4 {
	view := geom.LookAt(c.Eye, geom.V3(0, 0, 0), geom.V3(0, 1, 0))
	return geom.Perspective(c.FOV, c.Aspect, c.Near, c.Far).Multiply(view)
}

// Quad is one textured face of the box. Corners and UV are parallel arrays.
type Quad struct {
	Face    atlas.Face
	Corners [4]geom.Vec3
	UV      [4]geom.Vec2
}

// Quads returns the five faces of b with texture coordinates taken from the
// atlas face table.
//
// UV orientation follows the cross-shaped unfolding of the box: the edge each
// wall shares with the back wall maps to the cell edge that touches the back
// cell in the atlas. With stretch set, the four walls sample only the cell edge
// farthest from the back cell along their depth axis.
func Quads(b Box, stretch bool) [5]Quad {
	hw, hh, hd := b.HW, b.HH, b.HD
	uv := func(f atlas.Face) atlas.UVRect { return atlas.CellOf(f).UV() }

	back := uv(atlas.FaceBack)
	ceil := uv(atlas.FaceCeiling)
	floor := uv(atlas.FaceFloor)
	left := uv(atlas.FaceLeft)
	right := uv(atlas.FaceRight)

	// Depth coordinates at the back (z=-hd) and front (z=+hd) edges.
	ceilBack, ceilFront := ceil.V1, ceil.V0
	floorBack, floorFront := floor.V0, floor.V1
	leftBack, leftFront := left.U1, left.U0
	rightBack, rightFront := right.U0, right.U1
	if stretch {
		ceilBack = ceilFront
		floorBack = floorFront
		leftBack = leftFront
		rightBack = rightFront
	}

	return [5]Quad{
		{
			Face: atlas.FaceBack,
			Corners: [4]geom.Vec3{
				geom.V3(-hw, -hh, -hd), geom.V3(hw, -hh, -hd),
				geom.V3(hw, hh, -hd), geom.V3(-hw, hh, -hd),
			},
			UV: [4]geom.Vec2{
				{X: back.U0, Y: back.V0}, {X: back.U1, Y: back.V0},
				{X: back.U1, Y: back.V1}, {X: back.U0, Y: back.V1},
			},
		},
		{
			Face: atlas.FaceFloor,
			Corners: [4]geom.Vec3{
				geom.V3(-hw, hh, -hd), geom.V3(hw, hh, -hd),
				geom.V3(hw, hh, hd), geom.V3(-hw, hh, hd),
			},
			UV: [4]geom.Vec2{
				{X: floor.U0, Y: floorBack}, {X: floor.U1, Y: floorBack},
				{X: floor.U1, Y: floorFront}, {X: floor.U0, Y: floorFront},
			},
		},
		{
			Face: atlas.FaceCeiling,
			Corners: [4]geom.Vec3{
				geom.V3(-hw, -hh, hd), geom.V3(hw, -hh, hd),
				geom.V3(hw, -hh, -hd), geom.V3(-hw, -hh, -hd),
			},
			UV: [4]geom.Vec2{
				{X: ceil.U0, Y: ceilFront}, {X: ceil.U1, Y: ceilFront},
				{X: ceil.U1, Y: ceilBack}, {X: ceil.U0, Y: ceilBack},
			},
		},
		{
			Face: atlas.FaceLeft,
			Corners: [4]geom.Vec3{
				geom.V3(-hw, -hh, hd), geom.V3(-hw, -hh, -hd),
				geom.V3(-hw, hh, -hd), geom.V3(-hw, hh, hd),
			},
			UV: [4]geom.Vec2{
				{X: leftFront, Y: left.V0}, {X: leftBack, Y: left.V0},
				{X: leftBack, Y: left.V1}, {X: leftFront, Y: left.V1},
			},
		},
		{
			Face: atlas.FaceRight,
			Corners: [4]geom.Vec3{
				geom.V3(hw, -hh, -hd), geom.V3(hw, -hh, hd),
				geom.V3(hw, hh, hd), geom.V3(hw, hh, -hd),
			},
			UV: [4]geom.Vec2{
				{X: rightBack, Y: right.V0}, {X: rightFront, Y: right.V0},
				{X: rightFront, Y: right.V1}, {X: rightBack, Y: right.V1},
			},
		},
	}
}
