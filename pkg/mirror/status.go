package mirror

import (
	"fmt"

	"github.com/buger/goterm"
)

// Status is a node's position in the download state machine.
//
// The legal transitions are:
//
//	PENDING -> ALREADY_PRESENT          local file exists at scan time
//	ALREADY_PRESENT -> ALREADY_CHECKED  precheck digest matches
//	ALREADY_PRESENT -> CORRUPTED        precheck digest mismatches
//	PENDING | ALREADY_PRESENT | CORRUPTED -> DOWNLOADING
//	                                    download starts (the latter two only
//	                                    with --overwrite or --force)
//	DOWNLOADING -> DOWNLOADED           transfer done, no check configured
//	DOWNLOADING -> CHECKED              postcheck digest matches
//	DOWNLOADING -> FAILED               postcheck digest mismatches
//
// SCAN_FAILED is set when the remote metadata or listing fetch fails; the
// downloader skips such subtrees rather than materializing a partially
// known folder.
type Status int

const (
	StatusPending Status = iota
	StatusDownloading
	StatusDownloaded
	StatusAlreadyPresent
	StatusCorrupted
	StatusFailed
	StatusChecked
	StatusAlreadyChecked
	StatusScanFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDownloading:
		return "downloading"
	case StatusDownloaded:
		return "downloaded"
	case StatusAlreadyPresent:
		return "already present"
	case StatusCorrupted:
		return "corrupted"
	case StatusFailed:
		return "failed"
	case StatusChecked:
		return "checked"
	case StatusAlreadyChecked:
		return "already checked"
	case StatusScanFailed:
		return "scan failed"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// Color returns the goterm color used to render nodes with this status.
func (s Status) Color() int {
	switch s {
	case StatusPending:
		return goterm.CYAN
	case StatusDownloading:
		return goterm.BLUE
	case StatusDownloaded, StatusChecked, StatusAlreadyChecked:
		return goterm.GREEN
	case StatusAlreadyPresent:
		return goterm.YELLOW
	case StatusCorrupted, StatusFailed, StatusScanFailed:
		return goterm.RED
	default:
		return goterm.WHITE
	}
}

// RequiresDetails reports whether a folder with this status should be
// rendered with its children expanded. Everything else collapses to a
// placeholder, which bounds the output size when most of a large tree is
// already verified.
func (s Status) RequiresDetails() bool {
	switch s {
	case StatusCorrupted, StatusFailed, StatusAlreadyPresent,
		StatusDownloading, StatusScanFailed:
		return true
	}
	return false
}
