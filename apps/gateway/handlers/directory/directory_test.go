package directory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffdir/internal/appstate"
	"staffdir/internal/structs"
	"staffdir/pkg/logger"

	"github.com/gin-gonic/gin"
)

type fakeDirectory struct {
	employees  []structs.Employee
	searchHits []structs.Employee
}

func (f *fakeDirectory) Create(context.Context, structs.CreateEmployee) (string, error) {
	return "", nil
}

func (f *fakeDirectory) GetAll(context.Context) ([]structs.Employee, error) {
	return f.employees, nil
}

func (f *fakeDirectory) GetById(context.Context, string) (*structs.Employee, error) {
	return nil, nil
}

func (f *fakeDirectory) Update(context.Context, string, structs.UpdateEmployee) error {
	return nil
}

func (f *fakeDirectory) Delete(context.Context, string) error {
	return nil
}

func (f *fakeDirectory) UploadProfilePicture(context.Context, string, io.Reader) (string, error) {
	return "", nil
}

func (f *fakeDirectory) DeleteProfilePicture(context.Context, string) error {
	return nil
}

func (f *fakeDirectory) SearchByName(context.Context, string) ([]structs.Employee, error) {
	return f.searchHits, nil
}

type fakeIdentity struct{}

func (fakeIdentity) Register(context.Context, structs.RegisterRequest) (structs.Session, error) {
	return structs.Session{}, nil
}

func (fakeIdentity) Login(context.Context, structs.LoginRequest) (structs.Session, error) {
	return structs.Session{}, nil
}

func (fakeIdentity) Logout(context.Context) error {
	return nil
}

func (fakeIdentity) Current() *structs.Session {
	return nil
}

func (fakeIdentity) Sessions() <-chan *structs.Session {
	return make(chan *structs.Session)
}

func (fakeIdentity) Me(context.Context, string) (structs.User, error) {
	return structs.User{}, nil
}

func newListRouter(dir *fakeDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := appstate.New(appstate.Params{
		Directory: dir,
		Identity:  fakeIdentity{},
		Logger:    logger.New("error"),
	})
	h := &handler{logger: logger.New("error"), store: store}

	router := gin.New()
	router.GET("/employee", h.GetListEmployee)
	router.GET("/employee/search", h.SearchEmployee)
	router.DELETE("/employee/search", h.ClearSearch)
	return router
}

type listEnvelope struct {
	Status  string             `json:"status"`
	Payload []structs.Employee `json:"payload"`
}

func getList(t *testing.T, router *gin.Engine) listEnvelope {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/employee", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return envelope
}

// An active search takes precedence on the list endpoint; clearing it
// falls back to the full list.
func TestGetListRendersSearchResultsFirst(t *testing.T) {
	dir := &fakeDirectory{
		employees: []structs.Employee{
			{Id: "id-1", FirstName: "Alice"},
			{Id: "id-2", FirstName: "Bob"},
		},
		searchHits: []structs.Employee{{Id: "id-1", FirstName: "Alice"}},
	}
	router := newListRouter(dir)

	if envelope := getList(t, router); len(envelope.Payload) != 2 {
		t.Fatalf("expected the full list without a search, got %+v", envelope.Payload)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/employee/search?term=ali", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}

	envelope := getList(t, router)
	if len(envelope.Payload) != 1 || envelope.Payload[0].Id != "id-1" {
		t.Fatalf("expected the search results rendered, got %+v", envelope.Payload)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/employee/search", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear search: expected 200, got %d", rec.Code)
	}

	if envelope := getList(t, router); len(envelope.Payload) != 2 {
		t.Fatalf("expected the full list after clearing the search, got %+v", envelope.Payload)
	}
}
