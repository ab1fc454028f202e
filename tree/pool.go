package tree

import "unsafe"

// DefaultChunkSize is the default number of nodes per pool chunk.
const DefaultChunkSize = 1024

// NodePool allocates nodes in fixed-size chunks. Chunks are never moved,
// reallocated, or compacted, so every address returned by Allocate stays
// valid until Clear is called or the pool is dropped. There is no per-node
// free: memory discipline is bulk allocate, bulk release.
type NodePool struct {
	chunkSize   int
	nextInChunk int
	total       int
	chunks      [][]Node
}

// NewNodePool creates a pool with the given chunk size. A chunkSize <= 0
// falls back to DefaultChunkSize.
func NewNodePool(chunkSize int) *NodePool {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	p := &NodePool{chunkSize: chunkSize}
	p.grow()
	return p
}

func (p *NodePool) grow() {
	p.chunks = append(p.chunks, make([]Node, p.chunkSize))
	p.nextInChunk = 0
}

// Allocate returns a zero-valued node with a stable address.
func (p *NodePool) Allocate() *Node {
	if p.nextInChunk >= p.chunkSize {
		p.grow()
	}
	chunk := p.chunks[len(p.chunks)-1]
	n := &chunk[p.nextInChunk]
	p.nextInChunk++
	p.total++
	return n
}

// Size returns the number of nodes allocated.
func (p *NodePool) Size() int { return p.total }

// NumChunks returns the number of chunks currently held.
func (p *NodePool) NumChunks() int { return len(p.chunks) }

// MemoryUsage returns the approximate memory reserved by the pool in bytes.
func (p *NodePool) MemoryUsage() uintptr {
	return uintptr(len(p.chunks)*p.chunkSize) * unsafe.Sizeof(Node{})
}

// Clear releases all chunks and starts a fresh one. Every previously issued
// address becomes invalid; only safe between independent runs.
func (p *NodePool) Clear() {
	p.chunks = nil
	p.total = 0
	p.grow()
}
