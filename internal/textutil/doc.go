// Package textutil provides the text normalization primitives shared by
// classification and realignment: content fingerprinting and case-insensitive
// keyword matching.
package textutil
