package prc

// FourCC is a four-byte type or creator code. The bytes are usually
// ASCII but the format does not require it.
type FourCC [4]byte

// String maps the raw bytes to text, substituting '?' for anything
// outside the printable ASCII range.
func (c FourCC) String() string {
	return printable(c[:])
}

func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, v := range b {
		if v < 0x20 || v > 0x7e {
			v = '?'
		}
		out[i] = v
	}
	return string(out)
}
