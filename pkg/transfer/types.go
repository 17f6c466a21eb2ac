// Package transfer implements the relay's transfer state machine:
// access ID issuance, receiver claims, block handoff and completion.
//
// A transfer slot moves through three states. It starts Open when an
// ID is issued, becomes Claimed when a receiver takes it (either by
// downloading block zero or by joining the signaling room), and ends
// Done when the receiver reports completion. Expiry of the metadata
// TTL terminates a slot from any state.
package transfer

import "fmt"

// DefaultBlockSize is the block size advertised in new metadata (1 MiB).
const DefaultBlockSize uint32 = 1024 * 1024

// MetaInfo is the per-ID transfer metadata.
//
// FileName and FileSize are informational and fixed at creation.
// IsUsing/UsedBy track the receiver claim; Done is monotonic.
type MetaInfo struct {
	FileName  string
	FileSize  uint64
	BlockSize uint32
	IsUsing   bool
	UsedBy    string
	Done      bool
}

// NewMetaInfo returns unclaimed metadata for a freshly issued ID.
func NewMetaInfo(fileName string, fileSize uint64) MetaInfo {
	return MetaInfo{
		FileName:  fileName,
		FileSize:  fileSize,
		BlockSize: DefaultBlockSize,
	}
}

// FileBlock is one uploaded byte range of a file.
//
// Start and End are inclusive byte offsets; len(Data) == End-Start+1.
type FileBlock struct {
	Data     []byte
	Filename string
	Start    uint64
	End      uint64
	Total    uint64
}

// Status is the externally visible state of a transfer slot.
type Status struct {
	FileName string `json:"file_name"`
	FileSize uint64 `json:"file_size"`
	IsUsing  bool   `json:"is_using"`
	Done     bool   `json:"done"`
}

// BlockInfo is the metadata part of a block upload.
type BlockInfo struct {
	Filename string `json:"filename"`
	Start    uint64 `json:"start"`
	End      uint64 `json:"end"`
	Total    uint64 `json:"total"`
}

// BlockKey derives the block registry key for (id, start). The offset
// is zero-padded to 12 digits so keys sort lexically by offset.
func BlockKey(id string, start uint64) string {
	return fmt.Sprintf("%s:%012d", id, start)
}

// blockPrefix is the key prefix covering every block of an ID.
func blockPrefix(id string) string {
	return id + ":"
}
