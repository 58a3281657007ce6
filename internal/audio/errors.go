package audio

import "errors"

// ErrExtraction indicates a failed extraction attempt: a missing or
// unreadable chunk file, a decode failure, or a failed export. No partial
// buffer is ever returned alongside it.
var ErrExtraction = errors.New("audio extraction failed")

// ErrSampleFormat indicates two buffers with mismatched sample rate or
// channel count were combined.
var ErrSampleFormat = errors.New("sample format mismatch")

// ErrSplitFailed indicates the offline splitting pass failed.
var ErrSplitFailed = errors.New("audio splitting failed")
