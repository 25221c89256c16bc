package service

import "Club_Hub/internal/model"

// Identity is the authenticated caller as resolved by the auth middleware.
type Identity struct {
	UserID uint64
	Role   model.Role
}

// IsOwner compares the caller with the stored owner on every call.
func IsOwner(club *model.Club, actor Identity) bool {
	return club != nil && actor.UserID != 0 && club.OwnerID == actor.UserID
}

// gate must run before any mutation of the club or its children.
func gate(club *model.Club, actor Identity) error {
	if !IsOwner(club, actor) {
		return ErrUnauthorized
	}
	return nil
}
