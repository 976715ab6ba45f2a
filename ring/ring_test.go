package ring

import "testing"

func TestPushPopFIFO(t *testing.T) {
	r := New(8)
	for _, b := range []byte("hello") {
		r.Push(b)
	}
	var got []byte
	for {
		b, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestEmptyPop(t *testing.T) {
	r := New(4)
	if _, ok := r.Pop(); ok {
		t.Fatal("expected Pop on empty ring to report !ok")
	}
}

func TestOverflowDropsOldest(t *testing.T) {
	r := New(4)
	for _, b := range []byte("abcdef") { // 6 bytes into a 4-byte ring
		r.Push(b)
	}
	if r.Overflows() == 0 {
		t.Fatal("expected overflow counter to be nonzero")
	}
	var got []byte
	for {
		b, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "cdef" {
		t.Fatalf("got %q, want last 4 bytes %q", got, "cdef")
	}
}

func TestLenAndCap(t *testing.T) {
	r := New(16)
	if r.Cap() != 16 {
		t.Fatalf("cap = %d, want 16", r.Cap())
	}
	r.Push('x')
	r.Push('y')
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
	r.Pop()
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
}

func TestDefaultCapacity(t *testing.T) {
	r := New(0)
	if r.Cap() != DefaultCapacity {
		t.Fatalf("cap = %d, want default %d", r.Cap(), DefaultCapacity)
	}
}
