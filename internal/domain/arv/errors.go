package arv

import "errors"

var (
	ErrRegimenNotFound = errors.New("regimen not found")
	ErrNoActiveRegimen = errors.New("no active regimen")
)
