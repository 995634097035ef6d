// Package hashing detects repeated games in an engine match.
package hashing

import (
	"github.com/lgbarn/swapchess-go/internal/match"
)

// DuplicateDetector tracks the games seen so far.
type DuplicateDetector struct {
	// hashTable maps final position hashes to the games that reached them
	hashTable map[uint64][]GameSignature
	// useExactMatch also requires the same move sequence
	useExactMatch bool
	// duplicateCount tracks number of duplicates found
	duplicateCount int
}

// GameSignature stores identifying information about a game.
type GameSignature struct {
	// Hash is the Zobrist hash of the final position
	Hash uint64
	// PlyCount is the number of half-moves in the game
	PlyCount int
	// WeakHash is the material signature of the final position
	WeakHash uint64
	// Moves hashes the coordinate move sequence
	Moves uint64
}

// NewDuplicateDetector creates a new duplicate detector. With exactMatch
// set, two games are duplicates only when they share every move; otherwise
// reaching the same final position is enough.
func NewDuplicateDetector(exactMatch bool) *DuplicateDetector {
	return &DuplicateDetector{
		hashTable:     make(map[uint64][]GameSignature),
		useExactMatch: exactMatch,
	}
}

// Signature computes the signature of r. It returns false when the game
// has no readable final position.
func Signature(r match.Result) (GameSignature, bool) {
	pos, err := positionFromFEN(r.FinalFEN)
	if err != nil {
		return GameSignature{}, false
	}
	return GameSignature{
		Hash:     GenerateZobristHash(pos),
		PlyCount: len(r.Moves),
		WeakHash: WeakHash(pos),
		Moves:    NewGameHasher(HashMoveSequence).HashGame(r),
	}, true
}

// CheckAndAdd checks if a game is a duplicate and adds it to the hash table.
// Returns true if the game is a duplicate. Games without a final position
// are never duplicates.
func (d *DuplicateDetector) CheckAndAdd(r match.Result) bool {
	sig, ok := Signature(r)
	if !ok {
		return false
	}

	if existing, ok := d.hashTable[sig.Hash]; ok {
		for _, existingSig := range existing {
			if d.signaturesMatch(sig, existingSig) {
				d.duplicateCount++
				return true
			}
		}
	}

	d.hashTable[sig.Hash] = append(d.hashTable[sig.Hash], sig)
	return false
}

// signaturesMatch checks if two game signatures match.
func (d *DuplicateDetector) signaturesMatch(a, b GameSignature) bool {
	if a.Hash != b.Hash || a.WeakHash != b.WeakHash {
		return false
	}
	if d.useExactMatch && (a.PlyCount != b.PlyCount || a.Moves != b.Moves) {
		return false
	}
	return true
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of unique games.
func (d *DuplicateDetector) UniqueCount() int {
	count := 0
	for _, sigs := range d.hashTable {
		count += len(sigs)
	}
	return count
}

// Reset clears the hash table.
func (d *DuplicateDetector) Reset() {
	d.hashTable = make(map[uint64][]GameSignature)
	d.duplicateCount = 0
}

// HashType specifies what to hash for duplicate detection.
type HashType int

const (
	// HashFinalPosition hashes only the final position
	HashFinalPosition HashType = iota
	// HashMoveSequence hashes the coordinate moves
	HashMoveSequence
)

// GameHasher provides different hashing strategies for games.
type GameHasher struct {
	hashType HashType
}

// NewGameHasher creates a new game hasher with the specified strategy.
func NewGameHasher(ht HashType) *GameHasher {
	return &GameHasher{hashType: ht}
}

// HashGame generates a hash for the game based on the hash type. An
// unreadable final position hashes to zero.
func (gh *GameHasher) HashGame(r match.Result) uint64 {
	if gh.hashType == HashMoveSequence {
		return hashMoveSequence(r.Moves)
	}
	pos, err := positionFromFEN(r.FinalFEN)
	if err != nil {
		return 0
	}
	return GenerateZobristHash(pos)
}

// hashMoveSequence creates a hash from the move texts.
func hashMoveSequence(moves []string) uint64 {
	var hash uint64
	multiplier := uint64(31)

	for _, m := range moves {
		for _, c := range m {
			hash = hash*multiplier + uint64(c)
		}
		// separator keeps "e2e4","e7e5" apart from "e2e4e7","e5"
		hash = hash*multiplier + ' '
	}

	return hash
}
