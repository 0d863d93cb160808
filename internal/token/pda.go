package token

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// DeriveMetadataPDA derives the Metaplex metadata account address for
// a mint. Seeds: ["metadata", metadata_program_id, mint]. Returns
// empty when the mint is not a valid public key.
func DeriveMetadataPDA(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil || len(mintBytes) != 32 {
		return ""
	}
	programBytes, err := base58.Decode(MetadataProgramID)
	if err != nil || len(programBytes) != 32 {
		return ""
	}

	seeds := [][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}
	return derivePDA(seeds, programBytes)
}

// derivePDA derives a Program Derived Address: sha256 of the seeds,
// bump, program ID and the "ProgramDerivedAddress" marker, taking the
// first bump (from 255 down) whose hash lands off the ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}
	return ""
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
