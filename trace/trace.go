// Package trace implements obscuro.Trace as a bit-packed sequence of
// observations, censored to what a single player is allowed to see.
package trace

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	"github.com/timpalpant/obscuro"
)

const MaxLen = 64

const (
	playerBits  = 2
	publicBits  = 12
	privateBits = 18

	MaxPublic  = 1<<publicBits - 1
	MaxPrivate = 1<<privateBits - 1
)

// Observation records one event of the game's history. The public part
// is seen by both players, the private part only by Player. Observations
// private to Chance are seen by nobody.
type Observation struct {
	Player  obscuro.Player
	Public  uint16
	Private uint32
}

func (o Observation) String() string {
	if o.Private == 0 {
		return fmt.Sprintf("%v:%d", o.Player, o.Public)
	}

	return fmt.Sprintf("%v:%d:%d", o.Player, o.Public, o.Private)
}

// Observation is packed as bits within a uint32:
//
//	[0-1] Player
//	[2-13] Public
//	[14-31] Private
func encode(o Observation) uint32 {
	if o.Public > MaxPublic {
		panic(fmt.Errorf("public observation out of range: %d", o.Public))
	}
	if o.Private > MaxPrivate {
		panic(fmt.Errorf("private observation out of range: %d", o.Private))
	}

	return uint32(o.Player) | uint32(o.Public)<<playerBits | o.Private<<(playerBits+publicBits)
}

func decode(packed uint32) Observation {
	return Observation{
		Player:  obscuro.Player(packed & (1<<playerBits - 1)),
		Public:  uint16((packed >> playerBits) & MaxPublic),
		Private: packed >> (playerBits + publicBits),
	}
}

// Sequence is the full (uncensored) history of a game.
// It is presized, rather than a slice, to avoid allocations when states
// are copied.
type Sequence struct {
	obs [MaxLen]uint32
	n   int
}

func (s *Sequence) Len() int {
	return s.n
}

func (s *Sequence) Get(i int) Observation {
	if i >= s.n {
		panic(fmt.Errorf("index out of range: %d %v", i, s))
	}

	return decode(s.obs[i])
}

func (s *Sequence) Append(o Observation) {
	if s.n >= len(s.obs) {
		panic(fmt.Errorf("sequence exceeded max length: %v", s))
	}

	s.obs[s.n] = encode(o)
	s.n++
}

func (s *Sequence) AsSlice() []Observation {
	result := make([]Observation, s.n)
	for i, packed := range s.obs[:s.n] {
		result[i] = decode(packed)
	}
	return result
}

func (s *Sequence) String() string {
	return fmt.Sprintf("%v", s.AsSlice())
}

// ViewedBy censors the sequence to contain only what the given player
// can observe.
func (s *Sequence) ViewedBy(player obscuro.Player) Trace {
	result := Trace{owner: player, seq: *s}
	for i := 0; i < s.n; i++ {
		// We don't want to fully decode.
		if obscuro.Player(result.seq.obs[i]&(1<<playerBits-1)) != player {
			result.seq.obs[i] &= 1<<(playerBits+publicBits) - 1
		}
	}

	return result
}

// Trace is a Sequence as viewed by one player.
type Trace struct {
	owner obscuro.Player
	seq   Sequence
}

var _ obscuro.Trace = Trace{}

func (t Trace) Owner() obscuro.Player {
	return t.owner
}

func (t Trace) Len() int {
	return t.seq.n
}

func (t Trace) Get(i int) Observation {
	return t.seq.Get(i)
}

func (t Trace) Observations() []Observation {
	return t.seq.AsSlice()
}

// Key hashes the owner and observations into md5.
func (t Trace) Key() string {
	var buf [4*MaxLen + 1]byte
	buf[0] = byte(t.owner)
	for i := 0; i < t.seq.n; i++ {
		binary.LittleEndian.PutUint32(buf[1+4*i:], t.seq.obs[i])
	}

	// Hash into smaller bitstring since it is sparse.
	hash := md5.Sum(buf[:1+4*t.seq.n])
	return string(hash[:])
}

// Compare orders traces of the same owner by prefix: a trace is Less
// than every trace it is a strict prefix of. Traces of different owners
// are Incomparable.
func (t Trace) Compare(other obscuro.Trace) obscuro.Ordering {
	o, ok := other.(Trace)
	if !ok || o.owner != t.owner {
		return obscuro.Incomparable
	}

	n := t.seq.n
	if o.seq.n < n {
		n = o.seq.n
	}
	for i := 0; i < n; i++ {
		if t.seq.obs[i] != o.seq.obs[i] {
			return obscuro.Incomparable
		}
	}

	switch {
	case t.seq.n == o.seq.n:
		return obscuro.Equal
	case t.seq.n < o.seq.n:
		return obscuro.Less
	default:
		return obscuro.Greater
	}
}

func (t Trace) String() string {
	return fmt.Sprintf("%v%v", t.owner, t.seq.AsSlice())
}
