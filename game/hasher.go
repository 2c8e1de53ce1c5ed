package game

// StateHash is an opaque fingerprint of the board. It is not cryptographic.
type StateHash uint64

const goldenGamma = 0x9e3779b97f4a7c15

// mix64 is the splitmix64 finaliser.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// pieceKey is the contribution of piece p sitting at level (0 = ground) of
// the stack at pos. Keys are combined with XOR, so the fingerprint depends
// only on which piece is where, never on the order they arrived in.
func pieceKey(p Piece, pos Position, level int) StateHash {
	k := uint64(p.index())
	k = k<<20 | uint64(uint32(pos.Q))&0xfffff
	k = k<<20 | uint64(uint32(pos.R))&0xfffff
	k = k<<3 | uint64(level)&0x7
	return StateHash(mix64(k + goldenGamma))
}
