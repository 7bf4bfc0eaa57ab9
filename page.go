package quill

import (
	"github.com/google/uuid"

	"github.com/akeil/quill/pkg/ink"
)

// Page is a single sheet in a notebook.
//
// The page ID is assigned on creation and never changes. The screen
// transform and the modified flag are runtime state and are not stored.
type Page struct {
	id        uuid.UUID
	tags      *TagSet
	strokes   []*ink.Stroke
	lines     []*ink.Line
	paper     PaperType
	aspect    float32
	readOnly  bool
	modified  bool
	transform ink.Transform
}

// NewPage creates an empty page with ruled paper in the default format.
func NewPage(pool *TagPool) *Page {
	return &Page{
		id:        uuid.New(),
		tags:      pool.NewTagSet(),
		strokes:   make([]*ink.Stroke, 0),
		lines:     make([]*ink.Line, 0),
		paper:     PaperRuled,
		aspect:    DefaultAspectRatio,
		modified:  true,
		transform: ink.Identity(),
	}
}

// NewPageFrom creates an empty page that uses the same tags, paper,
// format and transform as the template.
func NewPageFrom(template *Page) *Page {
	return &Page{
		id:        uuid.New(),
		tags:      template.tags.Copy(),
		strokes:   make([]*ink.Stroke, 0),
		lines:     make([]*ink.Line, 0),
		paper:     template.paper,
		aspect:    template.aspect,
		modified:  true,
		transform: template.transform,
	}
}

// ID is the unique and stable identifier for this page.
func (p *Page) ID() uuid.UUID {
	return p.id
}

// Tags is the tag set for this page.
// Changes to the returned set are changes to the page.
func (p *Page) Tags() *TagSet {
	return p.tags
}

// PaperType is the background pattern.
func (p *Page) PaperType() PaperType {
	return p.paper
}

// SetPaperType changes the background pattern.
func (p *Page) SetPaperType(t PaperType) {
	p.paper = t
	p.modified = true
}

// AspectRatio is the page width divided by the page height.
func (p *Page) AspectRatio() float32 {
	return p.aspect
}

// SetAspectRatio changes the page format.
func (p *Page) SetAspectRatio(a float32) {
	p.aspect = a
	p.modified = true
}

// ReadOnly tells if the page is protected against edits.
func (p *Page) ReadOnly() bool {
	return p.readOnly
}

// SetReadOnly protects or unprotects the page.
func (p *Page) SetReadOnly(ro bool) {
	p.readOnly = ro
	p.modified = true
}

// IsModified tells if the page has unsaved changes.
func (p *Page) IsModified() bool {
	return p.modified
}

// Touch marks the page as modified, e.g. after the tags were changed.
func (p *Page) Touch() {
	p.modified = true
}

// IsEmpty tells if the page has neither strokes nor line art.
func (p *Page) IsEmpty() bool {
	return len(p.strokes) == 0 && len(p.lines) == 0
}

// Strokes returns the freehand strokes in drawing order.
func (p *Page) Strokes() []*ink.Stroke {
	s := make([]*ink.Stroke, len(p.strokes))
	copy(s, p.strokes)
	return s
}

// Lines returns the line art in drawing order.
func (p *Page) Lines() []*ink.Line {
	l := make([]*ink.Line, len(p.lines))
	copy(l, p.lines)
	return l
}

// AddStroke appends a stroke and applies the page transform to it.
func (p *Page) AddStroke(s *ink.Stroke) {
	p.strokes = append(p.strokes, s)
	s.SetTransform(p.transform)
	p.modified = true
}

// RemoveStroke removes the stroke from the page.
// Returns false if the stroke is not on this page.
func (p *Page) RemoveStroke(s *ink.Stroke) bool {
	for i, other := range p.strokes {
		if other == s {
			p.strokes = append(p.strokes[:i], p.strokes[i+1:]...)
			p.modified = true
			return true
		}
	}
	return false
}

// AddLine appends a line and applies the page transform to it.
func (p *Page) AddLine(l *ink.Line) {
	p.lines = append(p.lines, l)
	l.SetTransform(p.transform)
	p.modified = true
}

// RemoveLine removes the line from the page.
// Returns false if the line is not on this page.
func (p *Page) RemoveLine(l *ink.Line) bool {
	for i, other := range p.lines {
		if other == l {
			p.lines = append(p.lines[:i], p.lines[i+1:]...)
			p.modified = true
			return true
		}
	}
	return false
}

// Transform is the current page to screen transform.
func (p *Page) Transform() ink.Transform {
	return p.transform
}

// SetTransform sets the page to screen transform for the page and all
// content items.
func (p *Page) SetTransform(t ink.Transform) {
	p.transform = t
	for _, item := range p.items() {
		item.SetTransform(t)
	}
}

// SetTransformClamped sets the transform like SetTransform, but limits
// the offset so that at least a third of a width x height viewport is
// covered by the page.
func (p *Page) SetTransformClamped(t ink.Transform, width, height float32) {
	dx := minf(t.OffsetX, 2*width/3)
	dx = maxf(dx, width/3-t.Scale*p.aspect)
	dy := minf(t.OffsetY, 2*height/3)
	dy = maxf(dy, height/3-t.Scale)

	p.SetTransform(ink.Transform{OffsetX: dx, OffsetY: dy, Scale: t.Scale})
}

func (p *Page) items() []ink.Item {
	items := make([]ink.Item, 0, len(p.strokes)+len(p.lines))
	for _, s := range p.strokes {
		items = append(items, s)
	}
	for _, l := range p.lines {
		items = append(items, l)
	}
	return items
}

// Validate checks the page metadata and all content items.
func (p *Page) Validate() error {
	err := p.paper.Validate()
	if err != nil {
		return err
	}

	for _, item := range p.items() {
		err = item.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// Close releases the page's tags.
// The page must not be used afterwards.
func (p *Page) Close() {
	p.tags.Close()
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
