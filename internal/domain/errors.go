package domain

import "errors"

var (
	ErrLinkNotFound            = errors.New("link not found")
	ErrProjectNotFound         = errors.New("project not found")
	ErrVendorNotFound          = errors.New("vendor not found")
	ErrQuotaPoolNotFound       = errors.New("quota pool not found")
	ErrInvalidLinkState        = errors.New("invalid link state")
	ErrValidation              = errors.New("validation failed")
	ErrVendorProjectMismatch   = errors.New("vendor does not belong to link project")
	ErrVendorAlreadyCorrected  = errors.New("vendor assignment already corrected")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)
