package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrInvalidPassword = errors.New("contraseña inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrInvalidState    = errors.New("transición de estado inválida")
	ErrDuplicate       = errors.New("registro duplicado")
	ErrInvalidTerms    = errors.New("términos del préstamo inválidos")
	ErrClientHasLoans  = errors.New("el cliente tiene préstamos registrados")
	ErrInvalidAmount   = errors.New("monto inválido")
	ErrInvalidInput    = errors.New("datos inválidos")
)
