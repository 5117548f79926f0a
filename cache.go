package qoi

import "image/color"

func hash(c color.NRGBA) uint8 {
	return (c.R*3 + c.G*5 + c.B*7 + c.A*11) % 64
}

// state is the history shared in lockstep by the encoder and the decoder:
// the previous pixel and the 64-slot table of recently seen pixels. Both
// sides call update exactly once per pixel that is not part of a run.
type state struct {
	index [64]color.NRGBA
	prev  color.NRGBA
}

func newState() state {
	return state{prev: color.NRGBA{A: 255}}
}

func (s *state) lookup(slot uint8) color.NRGBA {
	return s.index[slot%64]
}

// contains reports the slot of c if the table holds exactly c there.
func (s *state) contains(c color.NRGBA) (uint8, bool) {
	h := hash(c)
	return h, s.index[h] == c
}

// update makes c the previous pixel and stores it at its hash slot,
// evicting whatever was there.
func (s *state) update(c color.NRGBA) {
	s.index[hash(c)] = c
	s.prev = c
}
