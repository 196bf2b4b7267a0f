// Package pixel implements the monochrome framebuffer used by page addressed OLED controllers.
//
// The framebuffer is compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, so it can be drawn on with the standard library as well as written to directly,
// one 8-pixel column strip per byte.
package pixel
