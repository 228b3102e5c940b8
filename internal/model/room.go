package model

import "time"

// RoomType groups rooms that share a description and a nightly base
// price.  Pricing is owned by the type, not by the individual room.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name (e.g. Deluxe, Suite).
//  Description      – optional marketing description.
//  BasePriceCents   – nightly base price in cents.
type RoomType struct {
    ID             uint64  // room_types.id
    Name           string  // room_types.name
    Description    *string // room_types.description (nullable)
    BasePriceCents Cents   // room_types.base_price (DECIMAL(10,2))
}

// Room is a bookable unit in the hotel.  Rooms are read-only from the
// booking engine's point of view; occupancy is derived from bookings and
// the IsAvailable flag only reflects the catalog's own status column.
//
// Fields:
//  ID                  – primary key identifier.
//  RoomTypeID          – reference to the room type.
//  RoomTypeName        – joined name of the room type.
//  RoomTypeDescription – joined description of the room type, if any.
//  RoomNumber          – number shown on the door.
//  Floor               – floor the room is on.
//  BasePriceCents      – nightly base price joined from the room type.
//  HasRate             – false when the room type carries no base price.
//  IsAvailable         – catalog status is 'available'.
//  CreatedAt           – creation timestamp.
type Room struct {
    ID                  uint64    // rooms.id
    RoomTypeID          uint64    // rooms.room_type_id
    RoomTypeName        string    // room_types.name
    RoomTypeDescription *string   // room_types.description (nullable)
    RoomNumber          string    // rooms.room_number
    Floor               int       // rooms.floor
    BasePriceCents      Cents     // room_types.base_price
    HasRate             bool      // room_types.base_price IS NOT NULL
    IsAvailable         bool      // rooms.status = 'available'
    CreatedAt           time.Time // rooms.created_at
}
