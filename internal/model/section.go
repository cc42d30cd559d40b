package model

import "time"

// Section groups a set of tables into a named area of the dining room
// (e.g. "Terrace", "Main Hall"). A table belongs to exactly one section.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the section.
//  Description – free-form description shown to guests.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Section struct {
    ID          uint64    // sections.id
    Name        string    // sections.name
    Description string    // sections.description
    CreatedAt   time.Time // sections.created_at
    UpdatedAt   time.Time // sections.updated_at
}
