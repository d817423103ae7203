// Package bitutil implements bit-twiddling helpers shared by move generation,
// board geometry, and search: bit scanning, popcount, and bitboard iteration.
package bitutil

// BitscanMagic forms the index into bitScanLookup from the isolated LSB of a
// bitboard. See http://pradu.us/old/Nov27_2008/Buzz/research/magic/Bitboards.pdf
// section 3.2.
const BitscanMagic uint64 = 0x07EDD5E59A4E28C2

var bitScanLookup = [64]int{
	63, 0, 58, 1, 59, 47, 53, 2,
	60, 39, 48, 27, 54, 33, 42, 3,
	61, 51, 37, 40, 49, 18, 28, 20,
	55, 30, 34, 11, 43, 14, 22, 4,
	62, 57, 46, 52, 38, 26, 32, 41,
	50, 36, 17, 19, 29, 10, 13, 21,
	56, 45, 25, 31, 35, 16, 9, 12,
	44, 24, 15, 8, 23, 7, 6, 5,
}

// BitScan returns the index of the least significant set bit of bitboard.
// Returns 63 for an empty bitboard; callers that need to distinguish the
// empty case should check bitboard != 0 first or use PopLSB.
func BitScan(bitboard uint64) int {
	return bitScanLookup[bitboard&-bitboard*BitscanMagic>>58]
}

// PopLSB clears the least significant set bit of *bitboard and returns its
// index, or -1 if the bitboard was already empty.
func PopLSB(bitboard *uint64) int {
	if *bitboard == 0 {
		return -1
	}
	lsb := BitScan(*bitboard)
	*bitboard &= *bitboard - 1
	return lsb
}

// CountBits returns the number of set bits in bitboard.
func CountBits(bitboard uint64) int {
	var cnt int
	for bitboard > 0 {
		cnt++
		bitboard &= bitboard - 1
	}
	return cnt
}
