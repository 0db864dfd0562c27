package pipeplane

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestSingleByteRoundTrip(t *testing.T) {
	p := New(1, 64)
	want := []byte("hello world")
	for _, b := range want {
		ok, err := p.EnqueueInputByte(0, b)
		if err != nil || !ok {
			t.Fatalf("enqueue byte: %v ok=%v", err, ok)
		}
	}
	var got []byte
	for i := 0; i < len(want); i++ {
		b, ok, err := p.DequeueInputByte(0)
		if err != nil || !ok {
			t.Fatalf("dequeue byte: %v ok=%v", err, ok)
		}
		got = append(got, b)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBlockWriteSingleRead(t *testing.T) {
	p := New(1, 64)
	want := []byte("the quick brown fox")
	n, err := p.EnqueueInput(0, want)
	if err != nil || n != len(want) {
		t.Fatalf("enqueue: n=%d err=%v", n, err)
	}
	var got []byte
	for {
		b, ok, err := p.DequeueInputByte(0)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, b)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSingleWriteBlockRead(t *testing.T) {
	p := New(1, 64)
	want := []byte("0123456789")
	for _, b := range want {
		if _, err := p.EnqueueInput(0, []byte{b}); err != nil {
			t.Fatal(err)
		}
	}
	buf := make([]byte, len(want))
	n, err := p.DequeueInput(0, buf)
	if err != nil || n != len(want) {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %q want %q", buf, want)
	}
}

func TestFullFailsFast(t *testing.T) {
	p := New(1, 4)
	n, err := p.EnqueueInput(0, []byte{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("expected partial accept of 4, got %d", n)
	}
}

func TestEmptyDequeue(t *testing.T) {
	p := New(1, 4)
	_, ok, err := p.DequeueInputByte(0)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected empty")
	}
}

func TestResetClears(t *testing.T) {
	p := New(1, 8)
	p.EnqueueInput(0, []byte("abcd"))
	if err := p.Reset(0); err != nil {
		t.Fatal(err)
	}
	avail, _ := p.BytesAvailable(0)
	if avail != 0 {
		t.Fatalf("expected 0 available after reset, got %d", avail)
	}
}

func TestRandomizedRoundTrip(t *testing.T) {
	p := New(1, 37) // deliberately awkward capacity to exercise wraparound
	var want []byte
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		want = append(want, byte(rng.Intn(256)))
	}
	var got []byte
	for len(got) < len(want) {
		// write a small chunk, then drain whatever fits, simulating a
		// producer/consumer racing against a small ring.
		chunk := want[len(got):]
		if len(chunk) > 5 {
			chunk = chunk[:5]
		}
		p.EnqueueInput(0, chunk)
		buf := make([]byte, 3)
		for {
			n, _ := p.DequeueInput(0, buf)
			if n == 0 {
				break
			}
			got = append(got, buf[:n]...)
		}
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch")
	}
}

func TestWatermarks(t *testing.T) {
	p := New(1, 100)
	st, _ := p.Status(0)
	if st.Input != WatermarkLow {
		t.Fatalf("expected low watermark on empty ring, got %v", st.Input)
	}
	p.EnqueueInput(0, make([]byte, 80))
	st, _ = p.Status(0)
	if st.Input != WatermarkHigh {
		t.Fatalf("expected high watermark at 80%% full, got %v", st.Input)
	}
}

func TestOutOfRangeLine(t *testing.T) {
	p := New(2, 16)
	if _, err := p.EnqueueInput(5, []byte("x")); err == nil {
		t.Fatal("expected error for out-of-range line")
	}
}
