package models

import "time"

// Room represents a physical teaching space.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Building  string    `db:"building" json:"building"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CampusID  string    `db:"campus_id" json:"campus_id"`
	RoomType  string    `db:"room_type" json:"room_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter encapsulates allowed search parameters for listing rooms.
type RoomFilter struct {
	Search   string
	CampusID string
	RoomType string
	Page     int
	PageSize int
}
