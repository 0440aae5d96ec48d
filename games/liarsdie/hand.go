package liarsdie

import (
	"fmt"
	"strings"
)

// Face is the face of one die. Ones are wild.
type Face uint8

const (
	NumFaces      = 6
	Wild     Face = 1
)

const (
	bitsPerFaceCount uint = 3
	maxCountPerFace       = (1 << bitsPerFaceCount) - 1
	faceMask              = Hand(1<<bitsPerFaceCount) - 1
)

// Hand is the unordered set of dice held by one player.
// Hand[Face] is the number of dice showing that Face, packed as
// 3 bits per face.
type Hand uint32

func NewHand(faces []Face) Hand {
	result := Hand(0)
	for _, f := range faces {
		result.Add(f)
	}
	return result
}

func (h Hand) CountOf(f Face) int {
	shift := uint(f-1) * bitsPerFaceCount
	return int((h >> shift) & faceMask)
}

// Matching is the number of dice that count towards a bid on f.
func (h Hand) Matching(f Face) int {
	if f == Wild {
		return h.CountOf(Wild)
	}

	return h.CountOf(f) + h.CountOf(Wild)
}

func (h Hand) Len() int {
	n := 0
	for f := Face(1); f <= NumFaces; f++ {
		n += h.CountOf(f)
	}
	return n
}

func (h *Hand) Add(f Face) {
	if f < 1 || f > NumFaces {
		panic(fmt.Errorf("invalid die face: %d", f))
	}
	if h.CountOf(f) >= maxCountPerFace {
		panic(fmt.Errorf("cannot hold more than %d dice showing %d", maxCountPerFace, f))
	}

	shift := uint(f-1) * bitsPerFaceCount
	*h += Hand(1) << shift
}

func (h Hand) String() string {
	var faces []string
	for f := Face(1); f <= NumFaces; f++ {
		for i := 0; i < h.CountOf(f); i++ {
			faces = append(faces, fmt.Sprint(f))
		}
	}

	return "[" + strings.Join(faces, " ") + "]"
}
