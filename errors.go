package opc

import "errors"

var (
	ErrInvalidPartName    = errors.New("opc: invalid part name")
	ErrInvalidTemplate    = errors.New("opc: invalid part name template")
	ErrPartNotFound       = errors.New("opc: part not found")
	ErrUnknownContentType = errors.New("opc: unresolved content type")
	ErrInvalidXML         = errors.New("opc: invalid xml")
	ErrZipCorrupt         = errors.New("opc: corrupt zip archive")
	ErrLimitExceeded      = errors.New("opc: limit exceeded")
)
