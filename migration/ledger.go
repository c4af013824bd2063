package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/holiman/uint256"
)

// Fingerprint identifies the inputs of a run
type Fingerprint struct {
	SnapshotDigest string
	TemplateDigest string
	ParamsDigest   string
}

// Run is a completed migration as kept by the run ledger
type Run struct {
	Fingerprint
	OutputDigest      string
	TotalSupply       uint256.Int
	SpecialAllocation uint256.Int
	CreatedAt         time.Time
	Accounts          []AccountRecord
}

// Ledger keeps completed runs so a rerun over identical inputs can be
// checked for identical output
// -----------------------------------------------------------------
type Ledger interface {
	// FindRun returns the most recent run with fingerprint fp, if any
	FindRun(ctx context.Context, fp Fingerprint) (Run, bool, error)
	// SaveRun stores a run and its accounts atomically
	SaveRun(ctx context.Context, run Run) error
}

// Clock abstracts time for production and testing
type Clock interface {
	Now() time.Time
}

// Digest returns the hex sha256 of data
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewFingerprint fingerprints a request under params
func NewFingerprint(req Request, p Params) Fingerprint {
	return Fingerprint{
		SnapshotDigest: Digest(req.Snapshot),
		TemplateDigest: Digest(req.Template),
		ParamsDigest:   p.Digest(),
	}
}

type nopLedger struct{}

func (nopLedger) FindRun(context.Context, Fingerprint) (Run, bool, error) { return Run{}, false, nil }
func (nopLedger) SaveRun(context.Context, Run) error                      { return nil }
