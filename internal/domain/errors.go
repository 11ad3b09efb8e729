package domain

import "fmt"

// ValidationError es un error local: input inválido rechazado antes de
// cualquier llamada de red. Nunca se reintenta.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// UpstreamError es una respuesta no-2xx de una API externa. Aborta el walk
// de paginación en curso; el body se conserva como detalle del fallo.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}
