package mirror

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/gddload/gddload/pkg/errors"
)

// CheckFile hashes the local file at the node's path and compares the digest
// to the one reported by the remote store. The file must exist; the caller
// is responsible for ensuring that.
//
// The algorithm is SHA-256 over the raw bytes, hex-encoded, because that's
// what the store reports. Using anything else would silently fail every
// comparison.
func CheckFile(node *Node) (bool, error) {
	f, err := fs.Open(node.Path())
	if err != nil {
		return false, errors.WithContext(err, "open")
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, errors.WithContext(err, "read")
	}

	return hex.EncodeToString(hasher.Sum(nil)) == node.ContentHash, nil
}

// Precheck verifies an already-present file before any download decision.
// A match means no download is needed; a mismatch marks the local copy
// corrupted (nothing is rewritten here).
func Precheck(node *Node) (bool, error) {
	ok, err := CheckFile(node)
	if err != nil {
		return false, err
	}

	if ok {
		node.SetStatus(StatusAlreadyChecked)
		node.SetProgress(1)
	} else {
		node.SetStatus(StatusCorrupted)
	}
	return ok, nil
}

// Postcheck verifies a file immediately after a download attempt.
func Postcheck(node *Node) (bool, error) {
	ok, err := CheckFile(node)
	if err != nil {
		return false, err
	}

	if ok {
		node.SetStatus(StatusChecked)
		node.SetProgress(1)
	} else {
		node.SetStatus(StatusFailed)
	}
	return ok, nil
}
