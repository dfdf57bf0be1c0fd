package directory

import (
	"errors"
	"net/http"
	"regexp"

	"staffdir/internal/appstate"
	"staffdir/internal/responses"
	"staffdir/internal/structs"
	"staffdir/pkg/logger"
	"staffdir/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type (
	Handler interface {
		CreateEmployee(c *gin.Context)
		GetListEmployee(c *gin.Context)
		GetByIDEmployee(c *gin.Context)
		PatchEmployee(c *gin.Context)
		DeleteEmployee(c *gin.Context)
		UploadProfilePicture(c *gin.Context)
		DeleteProfilePicture(c *gin.Context)
		SearchEmployee(c *gin.Context)
		ClearSearch(c *gin.Context)
		GetState(c *gin.Context)
		ClearError(c *gin.Context)
		ClearSelected(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger logger.Logger
		Store  *appstate.Store
	}

	handler struct {
		logger logger.Logger
		store  *appstate.Store
	}
)

func New(p Params) Handler {
	return &handler{
		logger: p.Logger,
		store:  p.Store,
	}
}

// validateCreate is the form-side required-field and email-shape check; a
// failure here never reaches a gateway.
func validateCreate(req structs.CreateEmployee) *structs.ValidationError {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"position", req.Position},
		{"department", req.Department},
	}
	for _, field := range required {
		if field.value == "" {
			return &structs.ValidationError{Field: field.name, Reason: "required"}
		}
	}
	if !emailShape.MatchString(req.Email) {
		return &structs.ValidationError{Field: "email", Reason: "invalid email address"}
	}
	return nil
}

func (h *handler) CreateEmployee(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateEmployee
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	if vErr := validateCreate(request); vErr != nil {
		response = responses.BadRequest
		response.Description = vErr.Error()
		return
	}

	created, err := h.store.CreateEmployee(ctx, request)
	if err != nil {
		h.logger.Error(ctx, " err on store.CreateEmployee", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	response = responses.Success
	response.Payload = created
}

// GetListEmployee refreshes the list, then renders search results when a
// search is active; this precedence is fixed and independent of loading.
func (h *handler) GetListEmployee(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if _, err := h.store.FetchEmployees(ctx); err != nil {
		h.logger.Error(ctx, " err on store.FetchEmployees", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	snapshot := h.store.Snapshot()
	response = responses.Success
	if len(snapshot.SearchResults) > 0 {
		response.Payload = snapshot.SearchResults
		return
	}
	response.Payload = snapshot.Employees
}

func (h *handler) GetByIDEmployee(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	employee, err := h.store.FetchEmployeeDetails(ctx, id)
	if err != nil {
		h.logger.Error(ctx, " err on store.FetchEmployeeDetails", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}
	if employee == nil {
		response = responses.NotFound
		return
	}

	response = responses.Success
	response.Payload = employee
}

func (h *handler) PatchEmployee(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UpdateEmployee
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	if request.Email != nil && !emailShape.MatchString(*request.Email) {
		response = responses.BadRequest
		response.Description = (&structs.ValidationError{Field: "email", Reason: "invalid email address"}).Error()
		return
	}

	if err := h.store.EditEmployee(ctx, id, request); err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on store.EditEmployee", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	response = responses.Success
}

func (h *handler) DeleteEmployee(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := h.store.RemoveEmployee(ctx, id); err != nil {
		h.logger.Error(ctx, " err on store.RemoveEmployee", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	response = responses.Success
}

func (h *handler) UploadProfilePicture(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn(ctx, " error parse multipart file", zap.Error(err))
		response = responses.BadRequest
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Warn(ctx, " error open multipart file", zap.Error(err))
		response = responses.BadRequest
		return
	}
	defer file.Close()

	url, err := h.store.UploadProfilePicture(ctx, id, file)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on store.UploadProfilePicture", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	response = responses.Success
	response.Payload = gin.H{"profilePicture": url}
}

func (h *handler) DeleteProfilePicture(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := h.store.DeleteProfilePicture(ctx, id); err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on store.DeleteProfilePicture", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	response = responses.Success
}

func (h *handler) SearchEmployee(c *gin.Context) {
	var (
		response structs.Response
		term     = c.Query("term")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	// empty input never reaches the gateway
	if term == "" {
		response = responses.BadRequest
		response.Description = (&structs.ValidationError{Field: "term", Reason: "required"}).Error()
		return
	}

	matched, err := h.store.SearchEmployees(ctx, term)
	if err != nil {
		h.logger.Error(ctx, " err on store.SearchEmployees", zap.Error(err))
		response = responses.InternalErr
		response.Description = err.Error()
		return
	}

	response = responses.Success
	response.Payload = matched
}

func (h *handler) ClearSearch(c *gin.Context) {
	var response structs.Response
	defer reply.Json(c.Writer, http.StatusOK, &response)

	h.store.ClearSearchResults()
	response = responses.Success
}

func (h *handler) GetState(c *gin.Context) {
	var response structs.Response
	defer reply.Json(c.Writer, http.StatusOK, &response)

	response = responses.Success
	response.Payload = h.store.Snapshot()
}

func (h *handler) ClearError(c *gin.Context) {
	var response structs.Response
	defer reply.Json(c.Writer, http.StatusOK, &response)

	h.store.ClearError()
	response = responses.Success
}

func (h *handler) ClearSelected(c *gin.Context) {
	var response structs.Response
	defer reply.Json(c.Writer, http.StatusOK, &response)

	h.store.ClearSelectedEmployee()
	response = responses.Success
}
