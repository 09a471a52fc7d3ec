package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ZeroHash is the previous-hash sentinel carried by the genesis block.
const ZeroHash = "0"

// Block represents one sealed record in the chain. The field set doubles as
// the stable external representation: what is persisted and served is exactly
// what is hashed over.
type Block struct {
	Index         uint64  `json:"index"`
	TimeStamp     string  `json:"timestamp"`
	Payload       Payload `json:"data"`
	PrevBlockHash string  `json:"previous_hash"`
	Nonce         uint64  `json:"nonce"`
	Hash          string  `json:"hash"`
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle for the given difficulty. The returned
// block is settled: its hash is consistent with its fields and meets the
// difficulty target. A maxAttempts of zero means the search is unbounded.
func POW(ctx context.Context, index uint64, payload Payload, prevBlockHash string, difficulty uint, maxAttempts uint64, ev EventHandler) (Block, error) {

	// Construct the block to be mined. The timestamp is captured once here
	// and never mutated afterwards.
	nb := Block{
		Index:         index,
		TimeStamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Payload:       payload,
		PrevBlockHash: prevBlockHash,
		Nonce:         0,
	}

	hash, err := ComputeHash(nb)
	if err != nil {
		return Block{}, err
	}
	nb.Hash = hash

	// Perform the proof of work mining operation.
	if err := nb.performPOW(ctx, difficulty, maxAttempts, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered. The
// nonce picks up from its current value, so calling this on an already
// solved block has nothing to do.
func (b *Block) performPOW(ctx context.Context, difficulty uint, maxAttempts uint64, ev EventHandler) error {
	ev(LevelInfo, "ledger: performPOW: MINING: started: blk[%d]", b.Index)
	defer ev(LevelInfo, "ledger: performPOW: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for {
		if isHashSolved(difficulty, b.Hash) {
			ev(LevelInfo, "ledger: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevBlockHash, b.Hash, attempts)
			return nil
		}

		attempts++
		if attempts%1_000_000 == 0 {
			ev(LevelInfo, "ledger: performPOW: MINING: attempts[%d]", attempts)
		}

		// Did we run out of time or attempts trying to solve the puzzle.
		if ctx.Err() != nil {
			ev(LevelWarn, "ledger: performPOW: MINING: CANCELLED: blk[%d]", b.Index)
			return fmt.Errorf("%w: %w", ErrMiningCancelled, ctx.Err())
		}
		if maxAttempts > 0 && attempts > maxAttempts {
			ev(LevelWarn, "ledger: performPOW: MINING: CANCELLED: blk[%d]: attempt budget [%d] exhausted", b.Index, maxAttempts)
			return ErrMiningCancelled
		}

		b.Nonce++

		hash, err := ComputeHash(*b)
		if err != nil {
			return err
		}
		b.Hash = hash
	}
}

// ComputeHash returns the hash for the block's current field values. The
// function is pure: the same index, timestamp, payload, previous hash and
// nonce always produce the same digest.
func ComputeHash(b Block) (string, error) {
	payload, err := b.Payload.Encode()
	if err != nil {
		return "", err
	}

	input := fmt.Sprintf("%d%s%s%s%d", b.Index, b.TimeStamp, payload, b.PrevBlockHash, b.Nonce)
	hash := sha256.Sum256([]byte(input))

	return hex.EncodeToString(hash[:]), nil
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 64 {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
