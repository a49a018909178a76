package imageio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Register decoders for every format the viewer accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is one decoded image ready for display. Ownership transfers
// from the loader goroutine through the shared queue to the viewer;
// nothing mutates it after Load returns.
type Image struct {
	// Path is the absolute source path.
	Path string
	// Name is the display name, the path's base.
	Name string
	// Selector is the channel selector active when the image was
	// requested; empty means no filter.
	Selector string
	// Format is the decoder name, e.g. "png".
	Format string
	// Orientation is the EXIF orientation the pixels were corrected
	// for.
	Orientation Orientation
	// Data holds the decoded, orientation-corrected pixels.
	Data image.Image
}

// Size returns the display dimensions.
func (i *Image) Size() image.Point {
	if i.Data == nil {
		return image.Point{}
	}
	return i.Data.Bounds().Size()
}

// Load decodes the image at path. The selector is carried through to
// the result for the viewer's filter matching. Errors are per-file:
// a failed load never affects other files.
func Load(path, selector string) (*Image, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	decoded, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", abs, err)
	}

	orientation := readOrientation(abs)
	decoded = orientation.Apply(decoded)

	return &Image{
		Path:        abs,
		Name:        filepath.Base(abs),
		Selector:    selector,
		Format:      format,
		Orientation: orientation,
		Data:        decoded,
	}, nil
}
