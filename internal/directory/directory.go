package directory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"staffdir/internal/structs"
	"staffdir/pkg/config"
	"staffdir/pkg/filestore"
	"staffdir/pkg/kvstore"
	"staffdir/pkg/logger"

	"github.com/segmentio/ksuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const pictureCollection = "profile-pictures"

type (
	Params struct {
		fx.In
		KV     kvstore.Store
		Files  filestore.Store
		Config config.IConfig
		Logger logger.Logger
	}

	// Service is the remote data gateway: every call is a single
	// request/response round trip against the backend stores, with no
	// retry and no local caching.
	Service interface {
		Create(ctx context.Context, req structs.CreateEmployee) (string, error)
		GetAll(ctx context.Context) ([]structs.Employee, error)
		GetById(ctx context.Context, id string) (*structs.Employee, error)
		Update(ctx context.Context, id string, req structs.UpdateEmployee) error
		Delete(ctx context.Context, id string) error
		UploadProfilePicture(ctx context.Context, id string, file io.Reader) (string, error)
		DeleteProfilePicture(ctx context.Context, id string) error
		SearchByName(ctx context.Context, term string) ([]structs.Employee, error)
	}

	service struct {
		kv         kvstore.Store
		files      filestore.Store
		logger     logger.Logger
		collection string
	}
)

func New(p Params) Service {
	return &service{
		kv:         p.KV,
		files:      p.Files,
		logger:     p.Logger,
		collection: p.Config.GetString("directory.collection"),
	}
}

func (s service) recordPath(id string) string {
	return s.collection + "/" + id
}

func (s service) Create(ctx context.Context, req structs.CreateEmployee) (string, error) {
	status := req.Status
	if status == "" {
		status = structs.StatusActive
	}

	employee := structs.Employee{
		Id:         ksuid.New().String(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		Department: req.Department,
		HireDate:   req.HireDate,
		Salary:     req.Salary,
		Address:    req.Address,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.kv.PutObj(ctx, s.recordPath(employee.Id), employee); err != nil {
		s.logger.Error(ctx, "->kv.PutObj", zap.Error(err))
		return "", &structs.RemoteError{Op: "create", Err: err}
	}

	return employee.Id, nil
}

func (s service) GetAll(ctx context.Context) ([]structs.Employee, error) {
	raw, err := s.kv.List(ctx, s.collection)
	if err != nil {
		s.logger.Error(ctx, "->kv.List", zap.Error(err))
		return nil, &structs.RemoteError{Op: "list", Err: err}
	}

	employees := make([]structs.Employee, 0, len(raw))
	for _, b := range raw {
		var employee structs.Employee
		if err := json.Unmarshal(b, &employee); err != nil {
			return nil, &structs.RemoteError{Op: "list", Err: err}
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s service) GetById(ctx context.Context, id string) (*structs.Employee, error) {
	var employee structs.Employee
	err := s.kv.GetObj(ctx, s.recordPath(id), &employee)
	if err != nil {
		// absent is not an error for reads
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "->kv.GetObj", zap.Error(err))
		return nil, &structs.RemoteError{Op: "get", Err: err}
	}
	return &employee, nil
}

func (s service) Update(ctx context.Context, id string, req structs.UpdateEmployee) error {
	var employee structs.Employee
	err := s.kv.GetObj(ctx, s.recordPath(id), &employee)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return &structs.RemoteError{Op: "update", Err: structs.ErrNotFound}
		}
		s.logger.Error(ctx, "->kv.GetObj", zap.Error(err))
		return &structs.RemoteError{Op: "update", Err: err}
	}

	merge(&employee, req)
	now := time.Now().UTC()
	employee.UpdatedAt = &now

	if err := s.kv.PutObj(ctx, s.recordPath(id), employee); err != nil {
		s.logger.Error(ctx, "->kv.PutObj", zap.Error(err))
		return &structs.RemoteError{Op: "update", Err: err}
	}
	return nil
}

func (s service) Delete(ctx context.Context, id string) error {
	// deleting an absent record is a success, per the backend's remove
	// semantics
	if err := s.kv.Delete(ctx, s.recordPath(id)); err != nil {
		s.logger.Error(ctx, "->kv.Delete", zap.Error(err))
		return &structs.RemoteError{Op: "delete", Err: err}
	}
	return nil
}

// UploadProfilePicture is two dependent remote operations: the blob is
// stored first, then the record is patched with the returned URL. A patch
// failure after a successful store leaves an orphaned object behind; there
// is no compensation step.
func (s service) UploadProfilePicture(ctx context.Context, id string, file io.Reader) (string, error) {
	url, err := s.files.Upload(ctx, file, pictureCollection+"/"+id)
	if err != nil {
		s.logger.Error(ctx, "->files.Upload", zap.Error(err))
		return "", &structs.RemoteError{Op: "upload picture", Err: err}
	}

	if err := s.Update(ctx, id, structs.UpdateEmployee{ProfilePicture: &url}); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteProfilePicture removes the blob first, then clears the record's
// URL. Same partial-failure caveat as upload, in reverse.
func (s service) DeleteProfilePicture(ctx context.Context, id string) error {
	if err := s.files.Remove(ctx, pictureCollection+"/"+id); err != nil {
		s.logger.Error(ctx, "->files.Remove", zap.Error(err))
		return &structs.RemoteError{Op: "delete picture", Err: err}
	}

	cleared := ""
	return s.Update(ctx, id, structs.UpdateEmployee{ProfilePicture: &cleared})
}

// SearchByName fetches the full list and filters locally; the backend has
// no indexed search.
func (s service) SearchByName(ctx context.Context, term string) ([]structs.Employee, error) {
	employees, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matched := make([]structs.Employee, 0, len(employees))
	for _, employee := range employees {
		if strings.Contains(strings.ToLower(employee.FirstName), needle) ||
			strings.Contains(strings.ToLower(employee.LastName), needle) {
			matched = append(matched, employee)
		}
	}
	return matched, nil
}

func merge(employee *structs.Employee, req structs.UpdateEmployee) {
	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Department != nil {
		employee.Department = *req.Department
	}
	if req.HireDate != nil {
		employee.HireDate = *req.HireDate
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.Address != nil {
		employee.Address = *req.Address
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}
	if req.ProfilePicture != nil {
		if *req.ProfilePicture == "" {
			employee.ProfilePicture = nil
		} else {
			employee.ProfilePicture = req.ProfilePicture
		}
	}
}
