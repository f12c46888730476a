// Package libis implements the HTTP interactions with an impulsestop
// server: the auth lifecycle, the item CRUD, the priority catalog and
// the live query stream.
package libis
