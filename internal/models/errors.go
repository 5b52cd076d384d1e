package models

import "errors"

// Custom errors
var (
	ErrUnknownLeague   = errors.New("unknown league")
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrAlreadyResolved = errors.New("prediction already resolved")
	ErrStoreNotBuilt   = errors.New("rating store not built for league")
	ErrInvalidTeamKey  = errors.New("team key is required")
)
