package domain

// RoomID is the client-supplied room identifier. Opaque, globally unique
// by convention.
type RoomID string

// RoomInfo is a read-only listing entry for the index page.
type RoomInfo struct {
	ID          RoomID `json:"id"`
	MemberCount int    `json:"member_count"`
}
