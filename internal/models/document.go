package models

import "time"

// DocumentInfo is a lightweight representation returned by store list
// operations. Document text is always read fresh, never cached here.
type DocumentInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
