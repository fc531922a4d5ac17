// Package render paints the still frames used in lesson videos.
//
// Placeholders draws numbered "Step {i}" JPEG frames when a request brings no
// images of its own, and Card draws the PNG recipe card that always opens the
// video. Both work on 1080x1920 RGBA canvases with golang.org/x/image font
// faces. Fonts come from configured TrueType files when present, then the
// embedded Go fonts, then the fixed-size basicfont face, so rendering never
// fails for lack of a font.
package render
