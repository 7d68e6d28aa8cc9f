package registry

import "fmt"

// DuplicateIdentityError is returned when adding an item whose identity is
// already present in a collection or cart.
type DuplicateIdentityError struct {
	GUID string
	ID   int64
}

func (e *DuplicateIdentityError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("item %d (guid %s) already present", e.ID, e.GUID)
	}
	return fmt.Sprintf("item guid %s already present", e.GUID)
}
