package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"staffdir/internal/structs"
	"staffdir/pkg/kvstore"
	"staffdir/pkg/logger"
)

type fakeKV struct {
	objects map[string][]byte
	putErr  error
	listErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{objects: map[string][]byte{}}
}

func (f *fakeKV) PutObj(_ context.Context, path string, value any) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.objects[path] = b
	return nil
}

func (f *fakeKV) GetObj(_ context.Context, path string, value any) error {
	b, ok := f.objects[path]
	if !ok {
		return kvstore.ErrNotFound
	}
	return json.Unmarshal(b, value)
}

func (f *fakeKV) Delete(_ context.Context, path string) error {
	delete(f.objects, path)
	return nil
}

func (f *fakeKV) List(_ context.Context, collection string) ([][]byte, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out [][]byte
	for path, b := range f.objects {
		if strings.HasPrefix(path, collection+"/") {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeFiles struct {
	objects   map[string][]byte
	uploadErr error
	removeErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: map[string][]byte{}}
}

func (f *fakeFiles) Upload(_ context.Context, body io.Reader, key string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = b
	return "https://files.test/" + key, nil
}

func (f *fakeFiles) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

func newService(kv *fakeKV, files *fakeFiles) Service {
	return &service{
		kv:         kv,
		files:      files,
		logger:     logger.New("error"),
		collection: "employee-directory/employees",
	}
}

func validCreate() structs.CreateEmployee {
	return structs.CreateEmployee{
		FirstName:  "Jo",
		LastName:   "Lee",
		Email:      "jo@x.com",
		Phone:      "555",
		Position:   "Eng",
		Department: "R&D",
	}
}

func TestCreateThenListIncludesRecord(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty id")
	}

	employees, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("expected 1 record, got %d", len(employees))
	}

	got := employees[0]
	if got.Id != id || got.FirstName != "Jo" || got.LastName != "Lee" ||
		got.Email != "jo@x.com" || got.Phone != "555" ||
		got.Position != "Eng" || got.Department != "R&D" {
		t.Fatalf("record fields mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
	if got.Status != structs.StatusActive {
		t.Fatalf("expected defaulted status %q, got %q", structs.StatusActive, got.Status)
	}
}

func TestGetByIdAbsentIsNotAnError(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())

	employee, err := svc.GetById(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if employee != nil {
		t.Fatalf("expected absent record, got %+v", employee)
	}
}

func TestUpdateMergesAndBumpsUpdatedAt(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	position := "Staff Eng"
	if err := svc.Update(ctx, id, structs.UpdateEmployee{Position: &position}); err != nil {
		t.Fatalf("update error: %v", err)
	}

	got, err := svc.GetById(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Position != "Staff Eng" {
		t.Fatalf("expected updated position, got %q", got.Position)
	}
	if got.FirstName != "Jo" || got.Email != "jo@x.com" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Fatal("expected updatedAt to be set")
	}

	first := *got.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	department := "Platform"
	if err := svc.Update(ctx, id, structs.UpdateEmployee{Department: &department}); err != nil {
		t.Fatalf("second update error: %v", err)
	}

	got, err = svc.GetById(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !got.UpdatedAt.After(first) {
		t.Fatalf("expected updatedAt to advance: %v -> %v", first, got.UpdatedAt)
	}
	if got.Position != "Staff Eng" {
		t.Fatal("earlier update lost")
	}
}

func TestUpdateMissingIdFails(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())

	name := "Jo"
	err := svc.Update(context.Background(), "missing", structs.UpdateEmployee{FirstName: &name})
	if err == nil {
		t.Fatal("expected update of a missing id to fail")
	}
	if !errors.Is(err, structs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	rErr := &structs.RemoteError{}
	if !errors.As(err, &rErr) {
		t.Fatalf("expected a RemoteError, got %T", err)
	}
}

func TestDeleteThenGetByIdAbsent(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	employee, err := svc.GetById(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if employee != nil {
		t.Fatal("expected record to be gone")
	}
}

func TestDeleteMissingIdIsSuccess(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())

	if err := svc.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestSearchByName(t *testing.T) {
	svc := newService(newFakeKV(), newFakeFiles())
	ctx := context.Background()

	records := []structs.CreateEmployee{
		{FirstName: "Alice", LastName: "Nguyen", Email: "a@x.com", Phone: "1", Position: "Eng", Department: "R&D"},
		{FirstName: "Bob", LastName: "Alicerton", Email: "b@x.com", Phone: "2", Position: "Eng", Department: "R&D"},
		{FirstName: "Carol", LastName: "Smith", Email: "c@x.com", Phone: "3", Position: "Eng", Department: "R&D"},
	}
	for _, rec := range records {
		if _, err := svc.Create(ctx, rec); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}

	matched, err := svc.SearchByName(ctx, "aLiCe")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
	for _, employee := range matched {
		if employee.FirstName == "Carol" {
			t.Fatal("non-matching record returned")
		}
	}

	matched, err = svc.SearchByName(ctx, "Smith")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(matched) != 1 || matched[0].FirstName != "Carol" {
		t.Fatalf("full-name search mismatch: %+v", matched)
	}
}

func TestUploadProfilePicture(t *testing.T) {
	kv := newFakeKV()
	files := newFakeFiles()
	svc := newService(kv, files)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	url, err := svc.UploadProfilePicture(ctx, id, bytes.NewBufferString("img-bytes"))
	if err != nil {
		t.Fatalf("upload error: %v", err)
	}
	if url == "" {
		t.Fatal("expected a non-empty url")
	}
	if _, ok := files.objects["profile-pictures/"+id]; !ok {
		t.Fatal("expected blob under the employee's picture path")
	}

	got, err := svc.GetById(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.ProfilePicture == nil || *got.ProfilePicture != url {
		t.Fatalf("expected profilePicture %q, got %v", url, got.ProfilePicture)
	}
}

// The picture upload is two dependent remote writes with no compensation:
// when the record patch fails after the blob is stored, the object stays
// behind orphaned.
func TestUploadPatchFailureLeavesOrphan(t *testing.T) {
	kv := newFakeKV()
	files := newFakeFiles()
	svc := newService(kv, files)

	_, err := svc.UploadProfilePicture(context.Background(), "missing", bytes.NewBufferString("img"))
	if err == nil {
		t.Fatal("expected the record patch to fail for a missing id")
	}
	if !errors.Is(err, structs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from the patch step, got %v", err)
	}
	if _, ok := files.objects["profile-pictures/missing"]; !ok {
		t.Fatal("expected the stored blob to remain orphaned")
	}
}

func TestDeleteProfilePicture(t *testing.T) {
	kv := newFakeKV()
	files := newFakeFiles()
	svc := newService(kv, files)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := svc.UploadProfilePicture(ctx, id, bytes.NewBufferString("img")); err != nil {
		t.Fatalf("upload error: %v", err)
	}

	if err := svc.DeleteProfilePicture(ctx, id); err != nil {
		t.Fatalf("delete picture error: %v", err)
	}

	if _, ok := files.objects["profile-pictures/"+id]; ok {
		t.Fatal("expected blob to be removed")
	}

	got, err := svc.GetById(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.ProfilePicture != nil {
		t.Fatalf("expected cleared profilePicture, got %v", *got.ProfilePicture)
	}
	if got.UpdatedAt == nil {
		t.Fatal("expected updatedAt to be set by the picture patch")
	}
}

func TestListFailureIsRemoteError(t *testing.T) {
	kv := newFakeKV()
	kv.listErr = errors.New("connection refused")
	svc := newService(kv, newFakeFiles())

	_, err := svc.GetAll(context.Background())
	if err == nil {
		t.Fatal("expected list to fail")
	}
	rErr := &structs.RemoteError{}
	if !errors.As(err, &rErr) {
		t.Fatalf("expected a RemoteError, got %T", err)
	}
}
