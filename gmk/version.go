package gmk

import (
	"fmt"

	"github.com/pkg/errors"
)

const Magic = 1234321

type Version int

const (
	VerUnknown Version = iota
	Ver53a
	Ver61
	Ver7
	Ver8
	Ver81
)

var versionCodes = map[uint32]Version{
	530: Ver53a,
	600: Ver61,
	701: Ver7,
	800: Ver8,
	810: Ver81,
}

var (
	ErrBadMagic           = errors.New("bad magic")
	ErrUnknownVersion     = errors.New("unknown version")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrMissingReference   = errors.New("missing reference")
	ErrBadEvent           = errors.New("bad event")
)

func VersionFromCode(code uint32) (Version, error) {
	if v, ok := versionCodes[code]; ok {
		return v, nil
	}
	return VerUnknown, errors.Wrapf(ErrUnknownVersion, "version code %d", code)
}

func (v Version) Code() uint32 {
	for code, ver := range versionCodes {
		if ver == v {
			return code
		}
	}
	return 0
}

func (v Version) String() string {
	switch v {
	case Ver53a:
		return "5.3a"
	case Ver61:
		return "6.1"
	case Ver7:
		return "7"
	case Ver8:
		return "8.0"
	case Ver81:
		return "8.1"
	}
	return fmt.Sprintf("unknown(%d)", int(v))
}

// compressed reports whether records of this version are deflated
func (v Version) compressed() bool {
	return v >= Ver8
}

// savable reports whether whole container can be written in this version
func (v Version) savable() bool {
	return v == Ver8 || v == Ver81
}
