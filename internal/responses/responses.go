package responses

import (
	"net/http"

	"staffdir/internal/structs"
)

const (
	UnauthorizedCode = http.StatusUnauthorized
	ForbiddenCode    = http.StatusForbidden
)

var (
	Success      = structs.Response{Status: "success"}
	BadRequest   = structs.Response{Status: "error", Description: "bad request"}
	NotFound     = structs.Response{Status: "error", Description: "not found"}
	Unauthorized = structs.Response{Status: "error", Description: "unauthorized"}
	Forbidden    = structs.Response{Status: "error", Description: "forbidden"}
	InternalErr  = structs.Response{Status: "error", Description: "internal server error"}
)
