package appstate

import (
	"context"
	"io"

	"staffdir/internal/structs"
)

// CreateEmployee submits a new record and appends it to the list on
// success. The appended entry carries the backend-assigned id; createdAt
// arrives with the next wholesale fetch, as the backend owns it.
func (st *Store) CreateEmployee(ctx context.Context, req structs.CreateEmployee) (structs.Employee, error) {
	st.begin()

	id, err := st.directory.Create(ctx, req)
	if err != nil {
		st.reject(err)
		return structs.Employee{}, err
	}

	// the gateway defaults an empty status to active; mirror it so the
	// appended entry matches the stored record
	status := req.Status
	if status == "" {
		status = structs.StatusActive
	}

	created := structs.Employee{
		Id:         id,
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
	}

	st.fulfill(func(state *State) {
		state.Employees = append(state.Employees, created)
	})
	return created, nil
}

// FetchEmployees refreshes the list wholesale.
func (st *Store) FetchEmployees(ctx context.Context) ([]structs.Employee, error) {
	st.begin()

	employees, err := st.directory.GetAll(ctx)
	if err != nil {
		st.reject(err)
		return nil, err
	}

	st.fulfill(func(state *State) {
		state.Employees = employees
	})
	return employees, nil
}

// FetchEmployeeDetails loads one record into SelectedEmployee. An absent
// id resolves with a nil selection, not an error.
func (st *Store) FetchEmployeeDetails(ctx context.Context, id string) (*structs.Employee, error) {
	st.begin()

	employee, err := st.directory.GetById(ctx, id)
	if err != nil {
		st.reject(err)
		return nil, err
	}

	st.fulfill(func(state *State) {
		state.SelectedEmployee = employee
	})
	return employee, nil
}

// EditEmployee applies a partial update remotely, then shallow-merges the
// changed fields into the matching list entry and the selection.
func (st *Store) EditEmployee(ctx context.Context, id string, req structs.UpdateEmployee) error {
	st.begin()

	if err := st.directory.Update(ctx, id, req); err != nil {
		st.reject(err)
		return err
	}

	st.fulfill(func(state *State) {
		for i := range state.Employees {
			if state.Employees[i].Id == id {
				mergeUpdate(&state.Employees[i], req)
				break
			}
		}
		if state.SelectedEmployee != nil && state.SelectedEmployee.Id == id {
			mergeUpdate(state.SelectedEmployee, req)
		}
	})
	return nil
}

// RemoveEmployee deletes the record and filters it out of the list; a
// matching selection is cleared.
func (st *Store) RemoveEmployee(ctx context.Context, id string) error {
	st.begin()

	if err := st.directory.Delete(ctx, id); err != nil {
		st.reject(err)
		return err
	}

	st.fulfill(func(state *State) {
		kept := state.Employees[:0]
		for _, employee := range state.Employees {
			if employee.Id != id {
				kept = append(kept, employee)
			}
		}
		state.Employees = kept
		if state.SelectedEmployee != nil && state.SelectedEmployee.Id == id {
			state.SelectedEmployee = nil
		}
	})
	return nil
}

// UploadProfilePicture stores the blob remotely and merges the returned
// URL into the matching entries.
func (st *Store) UploadProfilePicture(ctx context.Context, id string, file io.Reader) (string, error) {
	st.begin()

	url, err := st.directory.UploadProfilePicture(ctx, id, file)
	if err != nil {
		st.reject(err)
		return "", err
	}

	st.fulfill(func(state *State) {
		for i := range state.Employees {
			if state.Employees[i].Id == id {
				state.Employees[i].ProfilePicture = &url
				break
			}
		}
		if state.SelectedEmployee != nil && state.SelectedEmployee.Id == id {
			state.SelectedEmployee.ProfilePicture = &url
		}
	})
	return url, nil
}

// DeleteProfilePicture removes the stored blob and clears the URL on the
// matching entries.
func (st *Store) DeleteProfilePicture(ctx context.Context, id string) error {
	st.begin()

	if err := st.directory.DeleteProfilePicture(ctx, id); err != nil {
		st.reject(err)
		return err
	}

	st.fulfill(func(state *State) {
		for i := range state.Employees {
			if state.Employees[i].Id == id {
				state.Employees[i].ProfilePicture = nil
				break
			}
		}
		if state.SelectedEmployee != nil && state.SelectedEmployee.Id == id {
			state.SelectedEmployee.ProfilePicture = nil
		}
	})
	return nil
}

// SearchEmployees replaces SearchResults; callers clear it through
// ClearSearchResults to leave search mode.
func (st *Store) SearchEmployees(ctx context.Context, term string) ([]structs.Employee, error) {
	st.begin()

	matched, err := st.directory.SearchByName(ctx, term)
	if err != nil {
		st.reject(err)
		return nil, err
	}

	st.fulfill(func(state *State) {
		state.SearchResults = matched
	})
	return matched, nil
}

func (st *Store) Login(ctx context.Context, req structs.LoginRequest) (structs.Session, error) {
	st.begin()

	session, err := st.identity.Login(ctx, req)
	if err != nil {
		st.reject(err)
		return structs.Session{}, err
	}

	st.fulfill(func(state *State) {
		state.Session = &session
	})
	return session, nil
}

func (st *Store) Register(ctx context.Context, req structs.RegisterRequest) (structs.Session, error) {
	st.begin()

	session, err := st.identity.Register(ctx, req)
	if err != nil {
		st.reject(err)
		return structs.Session{}, err
	}

	st.fulfill(func(state *State) {
		state.Session = &session
	})
	return session, nil
}

func (st *Store) Logout(ctx context.Context) error {
	st.begin()

	if err := st.identity.Logout(ctx); err != nil {
		st.reject(err)
		return err
	}

	st.fulfill(func(state *State) {
		state.Session = nil
	})
	return nil
}

func mergeUpdate(employee *structs.Employee, req structs.UpdateEmployee) {
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
