// Package probe reads image dimensions from file headers. Only the header is
// decoded (image.DecodeConfig), never the pixel buffer, so inspecting a
// large texture costs a few hundred bytes of I/O.
//
// Supported formats: PNG, JPEG, GIF (stdlib) and BMP, TIFF, WebP
// (golang.org/x/image).
package probe
