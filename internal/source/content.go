package source

import "bytes"

const binarySniffSize = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// isBinary checks the first 512 bytes for NUL bytes.
func isBinary(content []byte) bool {
	size := min(len(content), binarySniffSize)
	return bytes.IndexByte(content[:size], 0) != -1
}

func stripBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, utf8BOM)
}
