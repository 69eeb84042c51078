package core

import (
	"fmt"

	"github.com/google/uuid"
)

var Owners []interface{}

// IdentifierAcquireNewID hands out the lowest free numeric id and records
// the owner so the slot can be reclaimed later.
func IdentifierAcquireNewID(owner interface{}) uint32 {
	if len(Owners) == 0 {
		Owners = make([]interface{}, 100)
	}
	length := uint32(len(Owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if Owners[i] == nil {
			Owners[i] = owner
			return i
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	Owners = append(Owners, owner)
	return uint32(len(Owners)) - 1
}

func IdentifierReleaseID(id uint32) error {
	if len(Owners) == 0 {
		return fmt.Errorf("IdentifierReleaseID called before any id was acquired, nothing was done")
	}
	if id >= uint32(len(Owners)) {
		return fmt.Errorf("IdentifierReleaseID: id '%d' out of range (max=%d), nothing was done", id, len(Owners))
	}
	// Just zero out the entry, making it available for use.
	Owners[id] = nil
	return nil
}

// IdentifierNewUUID returns a fresh universally unique id for resources
// that are tracked by name rather than by slot.
func IdentifierNewUUID() string {
	return uuid.New().String()
}
