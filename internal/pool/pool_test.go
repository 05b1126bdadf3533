package pool

import (
	"math/rand/v2"
	"testing"
)

func TestNewList(t *testing.T) {
	t.Parallel()

	l := New[int](0)
	if c := l.Cursor(); c != 0 {
		t.Errorf("Cursor, expected 0, got %d", c)
	}
}

// TestCursorCapacity checks growth and reuse together: starting from
// capacity 2, two pushes leave capacity untouched, erase+insert reuses
// the vacant slot, a third insert grows to 4, a fourth fits, and
// popping back down never touches capacity.
func TestCursorCapacity(t *testing.T) {
	t.Parallel()

	l := New[int](2)
	if cap := len(l.data); cap != 2 {
		t.Fatalf("initial capacity, expected 2, got %d", cap)
	}

	l.Push(1)
	l.Push(2)
	if cap := len(l.data); cap != 2 {
		t.Errorf("after two pushes, expected capacity 2, got %d", cap)
	}

	l.Erase(0)
	if cap := len(l.data); cap != 2 {
		t.Errorf("after erase, expected capacity 2, got %d", cap)
	}

	reused := l.Insert(3)
	if reused != 0 {
		t.Errorf("Insert after erase, expected to reuse index 0, got %d", reused)
	}
	if cap := len(l.data); cap != 2 {
		t.Errorf("after reusing insert, expected capacity 2, got %d", cap)
	}

	l.Insert(4) // cursor == capacity now, must grow
	if cap := len(l.data); cap != 4 {
		t.Errorf("after growth insert, expected capacity 4, got %d", cap)
	}

	l.Insert(5)
	if cap := len(l.data); cap != 4 {
		t.Errorf("after fourth insert, expected capacity 4, got %d", cap)
	}

	for l.Cursor() > 0 {
		l.Pop()
	}
	if c := l.Cursor(); c != 0 {
		t.Errorf("after draining, expected cursor 0, got %d", c)
	}
	if cap := len(l.data); cap != 4 {
		t.Errorf("after draining, expected capacity to remain 4, got %d", cap)
	}
}

func TestVacantReuse(t *testing.T) {
	t.Parallel()

	l := New[int](0)
	for i := 1; i <= 100; i++ {
		l.Push(i)
	}

	for i := 2; i <= 9; i++ {
		x := i * 10
		l.Erase(x)
		y := l.Insert(i)
		if x != y {
			t.Errorf("Insert after Erase(%d), expected reuse of %d, got %d", x, x, y)
		}
	}
}

func TestGetSetMut(t *testing.T) {
	t.Parallel()

	l := New[int](0)
	for i := range 1000 {
		l.Push(i)
	}

	for range 100 {
		i := rand.IntN(1000)
		if v := l.Get(i); v != i {
			t.Errorf("Get(%d), expected %d, got %d", i, i, v)
		}

		*l.GetMut(i) = -i
		if v := l.Get(i); v != -i {
			t.Errorf("after GetMut write, expected %d, got %d", -i, v)
		}

		l.Set(i, i)
	}
}

func TestClearInvalidatesIndices(t *testing.T) {
	t.Parallel()

	l := New[int](0)
	l.Push(1)
	l.Push(2)
	l.Erase(0)
	l.Clear()

	if c := l.Cursor(); c != 0 {
		t.Errorf("Cursor after Clear, expected 0, got %d", c)
	}
	i := l.Insert(99)
	if i != 0 {
		t.Errorf("Insert after Clear, expected fresh index 0, got %d", i)
	}
}

func TestPushIndicesMonotonic(t *testing.T) {
	t.Parallel()

	l := New[int](4)
	for i := range 500 {
		idx := l.Push(i)
		if idx != i {
			t.Fatalf("Push(%d), expected index %d, got %d", i, i, idx)
		}
		if idx >= l.Cursor() {
			t.Fatalf("Push returned index %d not below cursor %d", idx, l.Cursor())
		}
	}
}
