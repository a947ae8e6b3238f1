package word

import "testing"

func TestMakeElementRoundTrip(t *testing.T) {
	cases := []struct {
		tag   Tag
		value Word
	}{
		{TagInteger, 0},
		{TagDouble, 12345},
		{TagString, RootMarker - 1},
		{TagArray, 42},
		{TagObject, 1 << 40},
		{TagNull, 0},
		{TagTrue, 0},
		{TagFalse, 0},
	}

	for _, c := range cases {
		w := MakeElement(c.tag, c.value)
		if got := TagOf(w); got != c.tag {
			t.Errorf("TagOf(MakeElement(%v, %d)) = %v, want %v", c.tag, c.value, got, c.tag)
		}
		if got := ValueOf(w); got != c.value {
			t.Errorf("ValueOf(MakeElement(%v, %d)) = %d, want %d", c.tag, c.value, got, c.value)
		}
	}
}

func TestTagString(t *testing.T) {
	cases := map[Tag]string{
		TagInteger: "integer",
		TagDouble:  "double",
		TagNull:    "null",
		TagFalse:   "false",
		TagTrue:    "true",
		TagString:  "string",
		TagArray:   "array",
		TagObject:  "object",
		Tag(0xff):  "invalid",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("Tag(%d).String() = %q, want %q", tag, got, want)
		}
	}
}

func TestStoreLoadI32(t *testing.T) {
	buf := make([]Word, 1)
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648} {
		StoreI32(buf, 0, v)
		if got := LoadI32(buf, 0); got != v {
			t.Errorf("LoadI32 after StoreI32(%d) = %d", v, got)
		}
	}
}

func TestStoreLoadF64(t *testing.T) {
	buf := make([]Word, 1)
	for _, v := range []float64{0, 1.5, -1.5, 3.141592653589793, 1e300, -1e-300} {
		StoreF64(buf, 0, v)
		if got := LoadF64(buf, 0); got != v {
			t.Errorf("LoadF64 after StoreF64(%v) = %v", v, got)
		}
	}
}

func TestRootMarkerUnambiguous(t *testing.T) {
	// RootMarker must be larger than any real stack index this package
	// or wbuf will ever hand out for a buffer that fits in a Word.
	if RootMarker <= (1 << 32) {
		t.Fatalf("RootMarker too small: %d", RootMarker)
	}
}
