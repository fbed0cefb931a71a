package detector

import "errors"

// Domain error conditions. The transport layer maps these to user-facing
// responses; the engine itself never retries them.
var (
	// ErrNotTrained is returned by Predict before Train has completed
	ErrNotTrained = errors.New("model not trained")

	// ErrInvalidDataset is returned by Train for an empty or malformed
	// record collection
	ErrInvalidDataset = errors.New("training dataset must be a non-empty record collection")

	// ErrMissingInput is returned by Predict when both text and phone are
	// absent
	ErrMissingInput = errors.New("either message text or phone number is required")
)
