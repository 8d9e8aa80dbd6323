package config

import "github.com/klauspost/compress/zlib"

// Container version codes as they are stored in the file header.
const (
	GMKVer8  = 800
	GMKVer81 = 810
)

var saveVersion = GMKVer81
var compressionLevel = zlib.DefaultCompression

// GetSaveVersion returns version used when saving a project
// that was not loaded from a savable format.
func GetSaveVersion() int {
	return saveVersion
}

func SetSaveVersion(v int) {
	saveVersion = v
}

func GetCompressionLevel() int {
	return compressionLevel
}

func SetCompressionLevel(level int) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		level = zlib.DefaultCompression
	}
	compressionLevel = level
}
