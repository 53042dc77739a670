package server

import "testing"

func TestFrameBuffer(t *testing.T) {
	t.Parallel()

	b := newFrameBuffer(8)
	if b.Len() != 0 || b.Full() {
		t.Fatalf("new buffer: len %d, full %v", b.Len(), b.Full())
	}

	n := copy(b.Space(), "abcde")
	b.Fill(n)
	if got := string(b.Bytes()); got != "abcde" {
		t.Errorf("Bytes() = %q, want %q", got, "abcde")
	}
	if len(b.Space()) != 3 {
		t.Errorf("len(Space()) = %d, want 3", len(b.Space()))
	}

	b.Fill(copy(b.Space(), "fgh"))
	if !b.Full() {
		t.Errorf("Full() = false after filling 8 bytes")
	}

	b.Consume(3)
	if got := string(b.Bytes()); got != "defgh" {
		t.Errorf("after Consume(3): Bytes() = %q, want %q", got, "defgh")
	}

	b.Consume(10)
	if b.Len() != 0 {
		t.Errorf("after over-consume: Len() = %d, want 0", b.Len())
	}

	b.Load([]byte("12345678"))
	if !b.Full() {
		t.Errorf("Full() = false after Load")
	}
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("after Reset: Len() = %d, want 0", b.Len())
	}
}
