package imageio

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	exif "github.com/dsoprea/go-exif/v3"
)

// Orientation is the EXIF orientation tag value, 1 through 8.
// OrientNormal (1) also stands in for files with no EXIF data.
type Orientation uint16

const (
	OrientNormal      Orientation = 1
	OrientFlippedH    Orientation = 2
	OrientRotated180  Orientation = 3
	OrientFlippedV    Orientation = 4
	OrientTransposed  Orientation = 5
	OrientRotated90CW Orientation = 6
	OrientTransversed Orientation = 7
	OrientRotated90CC Orientation = 8
)

func (o Orientation) String() string {
	switch o {
	case OrientNormal:
		return "normal"
	case OrientFlippedH:
		return "flipped-h"
	case OrientRotated180:
		return "rotated-180"
	case OrientFlippedV:
		return "flipped-v"
	case OrientTransposed:
		return "transposed"
	case OrientRotated90CW:
		return "rotated-90-cw"
	case OrientTransversed:
		return "transversed"
	case OrientRotated90CC:
		return "rotated-90-ccw"
	default:
		return "unknown"
	}
}

// Apply returns img transformed so it displays upright.
func (o Orientation) Apply(img image.Image) image.Image {
	opts := &transform.RotationOptions{ResizeBounds: true}
	switch o {
	case OrientFlippedH:
		return transform.FlipH(img)
	case OrientRotated180:
		return transform.Rotate(img, 180, opts)
	case OrientFlippedV:
		return transform.FlipV(img)
	case OrientTransposed:
		return transform.Rotate(transform.FlipH(img), 90, opts)
	case OrientRotated90CW:
		return transform.Rotate(img, -90, opts)
	case OrientTransversed:
		return transform.Rotate(transform.FlipH(img), -90, opts)
	case OrientRotated90CC:
		return transform.Rotate(img, 90, opts)
	default:
		return img
	}
}

// readOrientation extracts the EXIF orientation from the file at path.
// Files without EXIF, or with unreadable EXIF, report OrientNormal;
// metadata problems never fail a load.
func readOrientation(path string) Orientation {
	rawExif, err := exif.SearchFileAndExtractExif(path)
	if err != nil {
		return OrientNormal
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return OrientNormal
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		if values, ok := tag.Value.([]uint16); ok && len(values) > 0 {
			if v := Orientation(values[0]); v >= OrientNormal && v <= OrientRotated90CC {
				return v
			}
		}
	}
	return OrientNormal
}
