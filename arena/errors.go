package arena

import "errors"

var (
	// ErrExhausted indicates the store cannot satisfy a growth request.
	// The region is left unchanged; growth never partially succeeds.
	ErrExhausted = errors.New("arena: store exhausted")

	// ErrStoreNotEmpty indicates New was given a store that already holds
	// bytes. An arena must own its store from the first byte.
	ErrStoreNotEmpty = errors.New("arena: store not empty")
)
