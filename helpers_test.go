package chromakey

func solidFrame(w, h int, c RGB) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGB(x, y, c)
		}
	}
	return f
}

func solidMask(w, h int, a float32) *AlphaMask {
	m := NewAlphaMask(w, h)
	for i := range m.Alpha {
		m.Alpha[i] = a
	}
	return m
}
