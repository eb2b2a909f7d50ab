package audio

import "errors"

var (
	// ErrUnsupportedSubtype indicates the file's encoding is outside the allow-list.
	ErrUnsupportedSubtype = errors.New("unsupported encoding subtype")

	// ErrEmptyAudio indicates the file decoded to zero sample frames.
	ErrEmptyAudio = errors.New("no audio samples in file")
)
