package dataset

import "errors"

// Sentinel errors for index construction and lookup failures. Returned
// errors wrap these, so callers discriminate with errors.Is. Missing point
// cloud or image files surface the underlying *fs.PathError instead.
var (
	// ErrMissingManifest indicates a split manifest file is absent. Opening a
	// dataset with a split whose manifest does not exist fails with this
	// rather than producing a silently empty index.
	ErrMissingManifest = errors.New("missing split manifest")

	// ErrMalformedMetadata indicates a sequence metadata record is missing,
	// unparseable or structurally invalid.
	ErrMalformedMetadata = errors.New("malformed sequence metadata")

	// ErrUnknownSequence indicates a sequence ID not present in the index.
	ErrUnknownSequence = errors.New("unknown sequence")

	// ErrUnknownFrame indicates a frame ID not present in its sequence.
	ErrUnknownFrame = errors.New("unknown frame")

	// ErrUnknownCamera indicates a camera not registered for the sequence.
	ErrUnknownCamera = errors.New("unknown camera")
)
