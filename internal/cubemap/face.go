package cubemap

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face identifies one side of the cube map.
type Face uint8

const (
	PosX Face = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Faces lists every face in GL cube-map target order.
func Faces() []Face {
	return []Face{PosX, NegX, PosY, NegY, PosZ, NegZ}
}

var faceNames = [...]string{
	PosX: "pos_x",
	NegX: "neg_x",
	PosY: "pos_y",
	NegY: "neg_y",
	PosZ: "pos_z",
	NegZ: "neg_z",
}

func (f Face) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return fmt.Sprintf("Face(%d)", uint8(f))
}

// GLTarget returns the name of the GL texture target the face uploads to.
func (f Face) GLTarget() string {
	switch f {
	case PosX:
		return "TEXTURE_CUBE_MAP_POSITIVE_X"
	case NegX:
		return "TEXTURE_CUBE_MAP_NEGATIVE_X"
	case PosY:
		return "TEXTURE_CUBE_MAP_POSITIVE_Y"
	case NegY:
		return "TEXTURE_CUBE_MAP_NEGATIVE_Y"
	case PosZ:
		return "TEXTURE_CUBE_MAP_POSITIVE_Z"
	case NegZ:
		return "TEXTURE_CUBE_MAP_NEGATIVE_Z"
	}
	return ""
}

// ParseFace accepts pos_x style names as well as +x / -x.
func ParseFace(s string) (Face, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range faceNames {
		if s == name {
			return Face(f), nil
		}
	}
	switch s {
	case "+x":
		return PosX, nil
	case "-x":
		return NegX, nil
	case "+y":
		return PosY, nil
	case "-y":
		return NegY, nil
	case "+z":
		return PosZ, nil
	case "-z":
		return NegZ, nil
	}
	return 0, fmt.Errorf("cubemap: unknown face %q", s)
}

// Direction maps face-local coordinates (x, y) in [-1,1]^2 to a point on
// the surface of the unit-half-width cube. The table pairs the GL face
// names (Y up) with a Z-up sphere so that the equirectangular seam and the
// poles land where GL samples them; do not change any sign.
func (f Face) Direction(x, y float64) r3.Vec {
	switch f {
	case PosZ:
		return r3.Vec{X: -1, Y: -x, Z: -y}
	case NegZ:
		return r3.Vec{X: 1, Y: x, Z: -y}
	case PosX:
		return r3.Vec{X: x, Y: -1, Z: -y}
	case NegX:
		return r3.Vec{X: -x, Y: 1, Z: -y}
	case PosY:
		return r3.Vec{X: -y, Y: -x, Z: 1}
	case NegY:
		return r3.Vec{X: y, Y: -x, Z: -1}
	}
	panic(fmt.Sprintf("cubemap: invalid face %d", uint8(f)))
}

// LonLat returns the longitude in [0, 2π) and the polar angle (colatitude,
// measured from +Z) in [0, π] of a non-zero direction.
func LonLat(p r3.Vec) (lon, lat float64) {
	lon = math.Mod(math.Atan2(p.Y, p.X), 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	lat = math.Acos(p.Z / r3.Norm(p))
	return lon, lat
}

// SourceCoord returns the fractional pixel position in a srcW x srcH
// equirectangular image that face pixel (px, py) samples. The result may
// fall up to half a pixel outside the image; samplers clamp.
func SourceCoord(f Face, px, py, faceSize, srcW, srcH int) (sx, sy float64) {
	x := 2*(float64(px)+0.5)/float64(faceSize) - 1
	y := 2*(float64(py)+0.5)/float64(faceSize) - 1
	lon, lat := LonLat(f.Direction(x, y))
	sx = float64(srcW)*lon/(2*math.Pi) - 0.5
	sy = float64(srcH)*lat/math.Pi - 0.5
	return sx, sy
}
