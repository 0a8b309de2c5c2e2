package core

// Sampler is a factory of uniformly distributed 1-D and 2-D samples in
// [0,1). Implementations must make Next2D reproducible as two successive
// Next1D draws in a fixed order, so any caller can reconstruct the 2-D
// value from the 1-D stream alone.
type Sampler interface {
	Seed(seed uint64)
	Next1D() float64
	Next2D() (float64, float64)
	Clone() Sampler
	SampleCount() int
}

// PCG32 is the reference Sampler: a 64-bit-state, 64-bit-stream PCG
// pseudorandom generator (O'Neill, 2014). Two independently seeded
// streams (e.g. one per image tile) never correlate, which is the
// property the tile-parallel renderer depends on.
type PCG32 struct {
	state, inc  uint64
	sampleCount int
}

const (
	pcg32DefaultState  uint64 = 0x853c49e6748fea9b
	pcg32DefaultStream uint64 = 0xda3e39cb94b95bdb
	pcg32Mult          uint64 = 6364136223846793005
)

// NewPCG32 constructs a sampler configured for sampleCount samples per
// pixel, seeded with the library default stream/state until Seed is
// called.
func NewPCG32(sampleCount int) *PCG32 {
	p := &PCG32{sampleCount: sampleCount}
	p.seedWith(pcg32DefaultState, pcg32DefaultStream)
	return p
}

func (p *PCG32) seedWith(initState, initSeq uint64) {
	p.state = 0
	p.inc = (initSeq << 1) | 1
	p.next32()
	p.state += initState
	p.next32()
}

// Seed reseeds the generator using seed as the sequence (stream)
// selector, matching the reference PCG32's pcg32_srandom_r(default,
// seed) convention. Distinct seeds select distinct, uncorrelated streams
// even though the visited state values may overlap.
func (p *PCG32) Seed(seed uint64) {
	p.seedWith(pcg32DefaultState, seed)
}

func (p *PCG32) next32() uint32 {
	oldState := p.state
	p.state = oldState*pcg32Mult + p.inc
	xorShifted := uint32(((oldState >> 18) ^ oldState) >> 27)
	rot := uint32(oldState >> 59)
	return (xorShifted >> rot) | (xorShifted << ((-rot) & 31))
}

// Next1D returns a uniform float64 in [0,1).
func (p *PCG32) Next1D() float64 {
	return float64(p.next32()) * 0x1p-32
}

// Next2D returns two successive Next1D draws in (x, then y) order.
func (p *PCG32) Next2D() (float64, float64) {
	x := p.Next1D()
	y := p.Next1D()
	return x, y
}

// Clone returns a fresh, unseeded PCG32 with the same sample count. The
// caller must Seed it (typically with the destination tile's linear id)
// to obtain a stream independent from the original.
func (p *PCG32) Clone() Sampler {
	return &PCG32{sampleCount: p.sampleCount}
}

func (p *PCG32) SampleCount() int { return p.sampleCount }
