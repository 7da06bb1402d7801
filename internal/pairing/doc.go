// Package pairing locates the cuesheet/image pair that belongs together in a
// directory. Pairs are matched by identical file stems; when several images
// share a stem the first extension in the order flac, ape, wv, wav wins.
package pairing
