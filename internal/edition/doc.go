// Package edition classifies bibliographic titles: whether a title looks
// like the first volume of its series, whether it is a derived release (box
// set, guide book, spin-off, translation, ...), and the combination of both
// that defines a mainline volume 1.
package edition
