package transfer

import "errors"

// Sentinel errors returned by the transfer service. The HTTP layer
// maps these onto response envelopes; nothing here carries status
// codes.

var (
	// ErrIDNotFound indicates the access ID does not exist (never
	// issued, or reaped by TTL).
	//
	// HTTP: 404 Not Found
	ErrIDNotFound = errors.New("access ID not found")

	// ErrAlreadyInUse indicates another receiver holds the claim.
	//
	// HTTP: 400 Bad Request
	ErrAlreadyInUse = errors.New("file already in use")

	// ErrWrongReceiver indicates the rid does not match the claim
	// holder at verification time.
	//
	// HTTP: 400 Bad Request
	ErrWrongReceiver = errors.New("wrong receive ID")

	// ErrInvalidRange indicates end < start, total == 0 or
	// start >= total.
	//
	// HTTP: 400 Bad Request
	ErrInvalidRange = errors.New("invalid file range")

	// ErrFileTooLarge indicates the declared total exceeds
	// max_block_size * max_blocks_per_file.
	//
	// HTTP: 400 Bad Request
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrBlockTooLarge indicates the uploaded payload exceeds the
	// block size cap.
	//
	// HTTP: 400 Bad Request
	ErrBlockTooLarge = errors.New("block size exceeds maximum limitation")

	// ErrBlockSizeMismatch indicates len(data) != end-start+1.
	//
	// HTTP: 400 Bad Request
	ErrBlockSizeMismatch = errors.New("block size mismatch")

	// ErrTooManyBlocks indicates the per-ID resident block cap was
	// reached. Transient: consuming or expiring blocks frees slots.
	//
	// HTTP: 400 Bad Request
	ErrTooManyBlocks = errors.New("maximum number of blocks per file reached")

	// ErrBlockNotReady indicates the requested block was not uploaded
	// within the in-request wait window. The client may re-request.
	//
	// HTTP: 425 Too Early
	ErrBlockNotReady = errors.New("block not ready")

	// ErrWrongStart indicates a block whose recorded start is past the
	// requested offset.
	//
	// HTTP: 400 Bad Request
	ErrWrongStart = errors.New("wrong start position")

	// ErrUpdateFailed indicates a metadata update could not be applied
	// after retries.
	//
	// HTTP: 500 Internal Server Error
	ErrUpdateFailed = errors.New("metadata update failed")

	// ErrIDSpaceExhausted indicates ID generation kept colliding.
	//
	// HTTP: 500 Internal Server Error
	ErrIDSpaceExhausted = errors.New("could not allocate a free access ID")
)
