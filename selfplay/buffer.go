package selfplay

import (
	"encoding/gob"
	"os"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/timpalpant/obscuro"
)

// Experience records the result of one search during self-play.
type Experience struct {
	Player   obscuro.Player
	TraceKey string
	Actions  []string
	// Average policy at the information set after the search.
	Policy []float64
	// Search expectation, from Player's point of view.
	Value float64
	// Final payoff of the game, from Player's point of view.
	Outcome float64
}

// Buffer accumulates Experiences from many games.
type Buffer struct {
	Experiences []Experience
	NumGames    int
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Len() int {
	return len(b.Experiences)
}

func (b *Buffer) Add(game []Experience) {
	b.Experiences = append(b.Experiences, game...)
	b.NumGames++
}

// Merge appends all Experiences of other to b.
func (b *Buffer) Merge(other *Buffer) {
	b.Experiences = append(b.Experiences, other.Experiences...)
	b.NumGames += other.NumGames
}

// SaveBuffer writes b to filename as gzip-compressed gob.
func SaveBuffer(b *Buffer, filename string) (err error) {
	glog.Infof("Saving %d experiences from %d games to %v", b.Len(), b.NumGames, filename)
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating %v", filename)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %v", filename)
		}
	}()

	w := gzip.NewWriter(f)
	enc := gob.NewEncoder(w)
	if err := enc.Encode(b); err != nil {
		w.Close()
		return errors.Wrap(err, "encoding experience buffer")
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "flushing compressed buffer")
	}

	return nil
}

// LoadBuffer reads a Buffer previously written with SaveBuffer.
func LoadBuffer(filename string) (*Buffer, error) {
	glog.Infof("Loading experience buffer from %v", filename)
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %v", filename)
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", filename)
	}
	defer r.Close()

	b := NewBuffer()
	dec := gob.NewDecoder(r)
	if err := dec.Decode(b); err != nil {
		return nil, errors.Wrapf(err, "decoding experience buffer from %v", filename)
	}

	return b, nil
}
