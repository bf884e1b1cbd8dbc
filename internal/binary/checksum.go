package binary

// MirroredSum returns the SNES header checksum of buf: the 16-bit byte sum of
// the image after mirroring any non power of two tail up to the next power of two.
func MirroredSum(buf []byte) uint16 {
	return uint16(mirroredSum(buf))
}

func mirroredSum(buf []byte) uint32 {
	if len(buf) == 0 {
		return 0
	}
	p := 1
	for p*2 <= len(buf) {
		p *= 2
	}
	sum := sumBytes(buf[:p])
	if p == len(buf) {
		return sum
	}
	rest := buf[p:]
	return sum + mirroredSum(rest)*uint32(p/nextPow2(len(rest)))
}

func sumBytes(b []byte) uint32 {
	var s uint32
	for _, v := range b {
		s += uint32(v)
	}
	return s
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
