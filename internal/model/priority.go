package model

// A Priority is an entry of the priority catalog.
// The catalog is seeded once and then only read by the application.
// Codes ascend from 1 which is the highest priority.
type Priority struct {
	ID       int    `json:"id"       msgpack:"id"       storm:"id"`
	Name     string `json:"name"     msgpack:"name"`
	Disabled bool   `json:"disabled" msgpack:"disabled" storm:"index"`
}
