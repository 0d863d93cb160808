// Package discovery locates AMM pools for a token mint by scanning
// program accounts at known byte offsets. The AMM program's account
// layout is not published, so the offsets are empirical: each list is
// ordered by observed hit rate.
package discovery

// MintOffsets are the byte offsets where a pool account references one
// of its constituent token mints.
var MintOffsets = []int{200, 232, 264, 168, 296, 328}

// LPMintOffsets are the byte offsets where a pool account references
// its LP mint. Earlier offsets hit far more often; the tail covers
// layout variants.
var LPMintOffsets = []int{136, 104, 72, 168, 200, 232, 264, 296, 328, 40, 8}

// PairOffsets are the byte offsets checked when identifying the
// counter asset of a pool.
var PairOffsets = []int{200, 232, 264, 168, 296, 72, 104, 136, 328}
