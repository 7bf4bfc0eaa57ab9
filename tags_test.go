package quill

import (
	"math/rand"
	"testing"
)

func TestMakeOrFind(t *testing.T) {
	pool := NewTagPool()

	a := pool.MakeOrFind("Foo")
	b := pool.MakeOrFind("foo")
	if a != b {
		t.Errorf("tag names should be case-insensitive")
	}
	if a.Name() != "Foo" {
		t.Errorf("unexpected name %q", a.Name())
	}
	if a.Autogenerated() {
		t.Errorf("new tags should not be autogenerated")
	}
	if pool.Len() != 1 {
		t.Errorf("unexpected pool size %d", pool.Len())
	}

	if pool.FindByName("FOO") != a {
		t.Errorf("FindByName should ignore case")
	}
	if pool.FindByName("bar") != nil {
		t.Errorf("FindByName should return nil for unknown tags")
	}
}

func TestTagSetCounts(t *testing.T) {
	pool := NewTagPool()
	foo := pool.MakeOrFind("foo")
	bar := pool.MakeOrFind("bar")

	s1 := pool.NewTagSet()
	s2 := pool.NewTagSet()

	if !s1.Add(foo) {
		t.Errorf("Add should return true for a new member")
	}
	if s1.Add(foo) {
		t.Errorf("Add should return false for an existing member")
	}
	s2.Add(foo)
	s2.Add(bar)

	if foo.Count() != 2 || bar.Count() != 1 {
		t.Errorf("unexpected counts foo=%d bar=%d", foo.Count(), bar.Count())
	}

	if !s2.Remove(foo) {
		t.Errorf("Remove should return true for a member")
	}
	if s2.Remove(foo) {
		t.Errorf("Remove should return false for a non-member")
	}
	if foo.Count() != 1 {
		t.Errorf("unexpected count foo=%d", foo.Count())
	}

	s1.Close()
	s2.Close()
	if foo.Count() != 0 || bar.Count() != 0 {
		t.Errorf("Close should release all members")
	}
	if s1.Len() != 0 {
		t.Errorf("closed set should be empty")
	}

	// tags are never removed from the pool
	if pool.Len() != 2 {
		t.Errorf("unexpected pool size %d", pool.Len())
	}
}

func TestTagSetCopy(t *testing.T) {
	pool := NewTagPool()
	foo := pool.MakeOrFind("foo")
	bar := pool.MakeOrFind("bar")

	s := pool.NewTagSet()
	s.Add(foo)
	s.Add(bar)

	c := s.Copy()
	if foo.Count() != 2 || bar.Count() != 2 {
		t.Errorf("Copy should add one reference per tag")
	}
	if !c.Contains(foo) || !c.Contains(bar) || c.Len() != 2 {
		t.Errorf("Copy should have the same members")
	}

	// independent sets
	c.Remove(foo)
	if !s.Contains(foo) {
		t.Errorf("changing the copy should not change the original")
	}
}

func TestTagSetSet(t *testing.T) {
	pool := NewTagPool()
	foo := pool.MakeOrFind("foo")
	bar := pool.MakeOrFind("bar")
	baz := pool.MakeOrFind("baz")

	s := pool.NewTagSet()
	s.Add(foo)
	s.Add(bar)

	other := pool.NewTagSet()
	other.Add(bar)
	other.Add(baz)

	s.Set(other)

	if s.Contains(foo) || !s.Contains(bar) || !s.Contains(baz) {
		t.Errorf("unexpected members %v", s.Names())
	}
	if foo.Count() != 0 || bar.Count() != 2 || baz.Count() != 2 {
		t.Errorf("unexpected counts foo=%d bar=%d baz=%d", foo.Count(), bar.Count(), baz.Count())
	}

	s.Set(s)
	if bar.Count() != 2 || s.Len() != 2 {
		t.Errorf("Set with itself should not change anything")
	}
}

func TestTagSetForeignPool(t *testing.T) {
	a := NewTagPool()
	b := NewTagPool()

	s := a.NewTagSet()
	tag := b.MakeOrFind("foo")
	if s.Add(tag) {
		t.Errorf("tags from another pool should be rejected")
	}
	if tag.Count() != 0 {
		t.Errorf("rejected tag should not be counted")
	}
}

func TestSortByUsage(t *testing.T) {
	pool := NewTagPool()
	a := pool.MakeOrFind("a")
	b := pool.MakeOrFind("b")
	c := pool.MakeOrFind("c")
	d := pool.MakeOrFind("d")

	s1 := pool.NewTagSet()
	s1.Add(c)
	s1.Add(b)
	s2 := pool.NewTagSet()
	s2.Add(c)
	s2.Add(d)

	pool.SortByUsage()

	// c has two references; b and d one each, in registration order; a none
	expected := []*Tag{c, b, d, a}
	actual := pool.Tags()
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("position %d: expected %v, got %v", i, expected[i], actual[i])
		}
	}

	s1.Close()
	s2.Close()
	pool.SortByUsage()
	actual = pool.Tags()
	expected = []*Tag{a, b, c, d}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("position %d: expected %v, got %v", i, expected[i], actual[i])
		}
	}
	if pool.Get(0) != a {
		t.Errorf("Get should return tags in sort order")
	}
}

func TestTagCountsMatchMembership(t *testing.T) {
	pool := NewTagPool()
	tags := []*Tag{
		pool.MakeOrFind("one"),
		pool.MakeOrFind("two"),
		pool.MakeOrFind("three"),
	}
	sets := make([]*TagSet, 5)
	for i := range sets {
		sets[i] = pool.NewTagSet()
	}

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		s := sets[rnd.Intn(len(sets))]
		tag := tags[rnd.Intn(len(tags))]
		switch rnd.Intn(4) {
		case 0, 1:
			s.Add(tag)
		case 2:
			s.Remove(tag)
		case 3:
			s.Set(sets[rnd.Intn(len(sets))])
		}

		for _, tag := range tags {
			n := 0
			for _, s := range sets {
				if s.Contains(tag) {
					n++
				}
			}
			if tag.Count() != n {
				t.Fatalf("step %d: tag %v has count %d, but is in %d sets", i, tag, tag.Count(), n)
			}
		}
	}
}
