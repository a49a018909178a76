// Package imageio decodes image files for the viewer.
//
// Supports png, jpeg, gif, bmp, tiff, webp, and the netpbm family via
// registered decoders. EXIF orientation is read where present and the
// decoded pixels are corrected before hand-off, so consumers never see
// a sideways image.
package imageio
