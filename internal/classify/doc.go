// Package classify maps posts to content categories for realignment planning.
//
// Classification is supplied by the caller as two lookup tables: remote post
// id and content fingerprint (normalized post text). The fingerprint table
// covers posts whose remote id was not known when the classification was
// authored.
package classify
