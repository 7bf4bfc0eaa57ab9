// Package ink holds the content items drawn on a notebook page:
// freehand strokes and straight line art.
//
// Items store their geometry in page coordinates and carry a Transform
// that maps them to the screen. The binary records written by
// WriteStroke and WriteLine are embedded in page records.
package ink
