// Package timecode converts cuesheet timecodes between the compact-disc frame
// encoding (75 frames per second) and millisecond encoding.
//
// Frame and Second are distinct string types so a frame-encoded mark can
// never be handed to a millisecond parser by accident. Both keep the original
// text; the empty value stands for an absent mark.
package timecode
