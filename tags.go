package quill

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akeil/quill/internal/logging"
)

// Tag is a named label that can be attached to pages.
//
// Tags are created and owned by a TagPool. Names are unique within a pool,
// ignoring case. A tag is never removed from its pool, even when no page
// uses it anymore.
type Tag struct {
	name          string
	autogenerated bool
	created       time.Time
	count         int
	seq           int
	pool          *TagPool
}

// Name is the display name of the tag.
func (t *Tag) Name() string {
	return t.name
}

// Autogenerated tells whether the tag was created by the application
// rather than by the user.
func (t *Tag) Autogenerated() bool {
	return t.autogenerated
}

// Created is the creation time of the tag.
func (t *Tag) Created() time.Time {
	return t.created
}

// Count is the number of live tag sets that contain this tag.
func (t *Tag) Count() int {
	t.pool.mx.Lock()
	defer t.pool.mx.Unlock()
	return t.count
}

func (t *Tag) String() string {
	return t.name
}

// TagPool is the registry of all known tags.
//
// All reference count changes go through the TagSets created by the pool
// and are guarded by the pool's lock.
type TagPool struct {
	mx   sync.Mutex
	tags []*Tag
	next int
	now  func() time.Time
}

// NewTagPool creates an empty pool.
func NewTagPool() *TagPool {
	return &TagPool{
		tags: make([]*Tag, 0),
		now:  time.Now,
	}
}

// FindByName looks up a tag by name, ignoring case.
// Returns nil if there is no such tag.
func (p *TagPool) FindByName(name string) *Tag {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.find(name)
}

// MakeOrFind returns the tag with the given name, creating it if necessary.
func (p *TagPool) MakeOrFind(name string) *Tag {
	p.mx.Lock()
	defer p.mx.Unlock()

	t := p.find(name)
	if t != nil {
		return t
	}
	return p.register(name, false, p.now())
}

// adopt registers a tag that was read from a stored record,
// unless a tag with the same name is already known.
func (p *TagPool) adopt(name string, autogenerated bool, created time.Time) *Tag {
	p.mx.Lock()
	defer p.mx.Unlock()

	t := p.find(name)
	if t != nil {
		return t
	}
	return p.register(name, autogenerated, created)
}

func (p *TagPool) find(name string) *Tag {
	for _, t := range p.tags {
		if strings.EqualFold(t.name, name) {
			return t
		}
	}
	return nil
}

// register must be called with the lock held.
func (p *TagPool) register(name string, autogenerated bool, created time.Time) *Tag {
	t := &Tag{
		name:          name,
		autogenerated: autogenerated,
		created:       created,
		seq:           p.next,
		pool:          p,
	}
	p.next++
	p.tags = append(p.tags, t)
	logging.Debug("Created new tag %q (%d tags)", name, len(p.tags))
	return t
}

// SortByUsage orders the tags by descending reference count.
//
// Tags with the same count keep their registration order.
func (p *TagPool) SortByUsage() {
	p.mx.Lock()
	defer p.mx.Unlock()

	sort.SliceStable(p.tags, func(i, j int) bool {
		a, b := p.tags[i], p.tags[j]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.seq < b.seq
	})
}

// Tags returns all known tags in their current order.
func (p *TagPool) Tags() []*Tag {
	p.mx.Lock()
	defer p.mx.Unlock()

	tags := make([]*Tag, len(p.tags))
	copy(tags, p.tags)
	return tags
}

// Len is the number of known tags.
func (p *TagPool) Len() int {
	p.mx.Lock()
	defer p.mx.Unlock()
	return len(p.tags)
}

// Get returns the tag at the given position.
func (p *TagPool) Get(i int) *Tag {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.tags[i]
}

// NewTagSet creates an empty tag set bound to this pool.
func (p *TagPool) NewTagSet() *TagSet {
	return &TagSet{
		pool: p,
		tags: make([]*Tag, 0),
	}
}

// TagSet is the set of tags attached to a single page.
//
// Each member holds one reference on its tag. Call Close when the owning
// page is discarded.
type TagSet struct {
	pool *TagPool
	tags []*Tag
}

// Pool is the pool this set was created from.
func (s *TagSet) Pool() *TagPool {
	return s.pool
}

// Add inserts the tag and returns true, or returns false if the tag is
// already a member.
func (s *TagSet) Add(t *Tag) bool {
	if t.pool != s.pool {
		logging.Warning("Refusing to add tag %q from a different pool", t.name)
		return false
	}

	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()

	if s.indexOf(t) >= 0 {
		return false
	}
	s.tags = append(s.tags, t)
	t.count++
	return true
}

// Remove takes the tag out of the set.
// Returns false if it was not a member.
func (s *TagSet) Remove(t *Tag) bool {
	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()

	i := s.indexOf(t)
	if i < 0 {
		return false
	}
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	t.count--
	return true
}

// Contains tells whether the tag is a member of this set.
func (s *TagSet) Contains(t *Tag) bool {
	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()
	return s.indexOf(t) >= 0
}

func (s *TagSet) indexOf(t *Tag) int {
	for i, member := range s.tags {
		if member == t {
			return i
		}
	}
	return -1
}

// Set replaces the members of this set with the members of other.
//
// All current members are released before the new members are added, so a
// tag that is in both sets ends up with an unchanged count.
// Setting a set to itself leaves it unchanged.
func (s *TagSet) Set(other *TagSet) {
	if other == s {
		return
	}

	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()

	incoming := make([]*Tag, len(other.tags))
	copy(incoming, other.tags)

	s.release()
	for _, t := range incoming {
		s.tags = append(s.tags, t)
		t.count++
	}
}

// Copy creates an independent set with the same members.
func (s *TagSet) Copy() *TagSet {
	ts := s.pool.NewTagSet()
	ts.Set(s)
	return ts
}

// Close releases all members and leaves the set empty.
func (s *TagSet) Close() {
	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()
	s.release()
}

// release must be called with the lock held.
func (s *TagSet) release() {
	for _, t := range s.tags {
		t.count--
	}
	s.tags = s.tags[:0]
}

// Tags returns the members in insertion order.
func (s *TagSet) Tags() []*Tag {
	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()

	tags := make([]*Tag, len(s.tags))
	copy(tags, s.tags)
	return tags
}

// Names returns the names of all members in insertion order.
func (s *TagSet) Names() []string {
	tags := s.Tags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.name
	}
	return names
}

// Len is the number of members.
func (s *TagSet) Len() int {
	s.pool.mx.Lock()
	defer s.pool.mx.Unlock()
	return len(s.tags)
}
