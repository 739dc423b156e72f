package stream

import "testing"

func TestByteWordDword(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	b, err := r.Byte()
	if err != nil || b != 0x01 {
		t.Fatalf("Byte() = %v, %v", b, err)
	}
	w, err := r.Word()
	if err != nil || w != 0x0302 {
		t.Fatalf("Word() = %#x, %v", w, err)
	}
}

func TestDword(t *testing.T) {
	r := New([]byte{0x78, 0x56, 0x34, 0x12})
	d, err := r.Dword()
	if err != nil || d != 0x12345678 {
		t.Fatalf("Dword() = %#x, %v", d, err)
	}
}

func TestFifteenByteCap(t *testing.T) {
	buf := make([]byte, 20)
	r := New(buf)
	r.SetPos(0)
	for i := 0; i < 15; i++ {
		if _, err := r.Byte(); err != nil {
			t.Fatalf("byte %d: unexpected error %v", i, err)
		}
	}
	if _, err := r.Byte(); err != ErrTooLong {
		t.Fatalf("16th byte should fail with ErrTooLong, got %v", err)
	}
}

func TestSetPosResetsOrigin(t *testing.T) {
	buf := make([]byte, 40)
	r := New(buf)
	r.SetPos(10)
	for i := 0; i < 15; i++ {
		if _, err := r.Byte(); err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
	}
	r.SetPos(30)
	if _, err := r.Byte(); err != nil {
		t.Fatalf("byte after SetPos reset should succeed: %v", err)
	}
}

func TestPeekByteDoesNotAdvance(t *testing.T) {
	r := New([]byte{0xAA, 0xBB})
	p, err := r.PeekByte()
	if err != nil || p != 0xAA {
		t.Fatalf("PeekByte() = %#x, %v", p, err)
	}
	b, _ := r.Byte()
	if b != 0xAA {
		t.Fatalf("Byte() after Peek should re-read same byte, got %#x", b)
	}
}

func TestOutOfRange(t *testing.T) {
	r := New([]byte{0x01})
	r.Byte()
	if _, err := r.Byte(); err != ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
