// Package workpool hands out contiguous batches of primaries to
// simulation workers.
package workpool

import (
	"sync/atomic"

	"github.com/san-kum/ebsim/internal/core"
)

// Pool is a thread-safe cursor over the primary array. It does not own
// the slices it was given; callers must not modify them during a run.
type Pool struct {
	particles []core.Particle
	tags      []core.Tag
	next      atomic.Int64
}

func New(particles []core.Particle, tags []core.Tag) *Pool {
	if len(particles) != len(tags) {
		panic("workpool: particle and tag counts differ")
	}
	return &Pool{particles: particles, tags: tags}
}

// Batch is a claimed range of primaries. Len is zero once the pool is exhausted.
type Batch struct {
	Particles []core.Particle
	Tags      []core.Tag
	First     int
}

func (b Batch) Len() int { return len(b.Particles) }

// Claim reserves up to n unclaimed primaries. Fewer are returned near the
// end of the array, and none once everything has been handed out.
func (p *Pool) Claim(n int) Batch {
	if n <= 0 {
		return Batch{}
	}
	total := int64(len(p.particles))
	for {
		cur := p.next.Load()
		if cur >= total {
			return Batch{First: int(total)}
		}
		end := total
		if int64(n) < total-cur {
			end = cur + int64(n)
		}
		if p.next.CompareAndSwap(cur, end) {
			return Batch{
				Particles: p.particles[cur:end:end],
				Tags:      p.tags[cur:end:end],
				First:     int(cur),
			}
		}
	}
}

// Remaining returns the number of primaries not yet claimed. It tracks
// dispatch, not completion: claimed primaries may still be in flight.
func (p *Pool) Remaining() int {
	return len(p.particles) - int(p.next.Load())
}

func (p *Pool) Total() int { return len(p.particles) }
