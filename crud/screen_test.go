package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-event-admin/apperr"
)

type item struct {
	ID   int
	Name string
}

func (i item) GetID() int { return i.ID }

type itemForm struct{ Name string }

func (f itemForm) Input() string { return f.Name }

// fakeResource records every dispatched call.
type fakeResource struct {
	items     []item
	calls     []string
	listErr   error
	createErr error
	deleteErr error
}

func (r *fakeResource) List(ctx context.Context) ([]item, error) {
	r.calls = append(r.calls, "list")
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]item(nil), r.items...), nil
}

func (r *fakeResource) Create(ctx context.Context, in string) (item, error) {
	r.calls = append(r.calls, "create")
	if r.createErr != nil {
		return item{}, r.createErr
	}
	it := item{ID: len(r.items) + 1, Name: in}
	r.items = append(r.items, it)
	return it, nil
}

func (r *fakeResource) Update(ctx context.Context, id int, in string) (item, error) {
	r.calls = append(r.calls, "update")
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Name = in
			return r.items[i], nil
		}
	}
	return item{}, &apperr.ServerError{Status: 404, Detail: "not found"}
}

func (r *fakeResource) Delete(ctx context.Context, id int) error {
	r.calls = append(r.calls, "delete")
	return r.deleteErr
}

func requireName(form interface{}) error {
	if form.(itemForm).Name == "" {
		return apperr.NewValidation("name", "This field is required.")
	}
	return nil
}

func newScreen(r *fakeResource) *Screen[item, string] {
	return NewScreen[item, string]("items", r, requireName)
}

func TestLoad(t *testing.T) {
	r := &fakeResource{items: []item{{1, "a"}, {2, "b"}}}
	s := newScreen(r)
	require.NoError(t, s.Load(context.Background()))
	assert.Len(t, s.Items(), 2)

	it, ok := s.Find(2)
	assert.True(t, ok)
	assert.Equal(t, "b", it.Name)
	_, ok = s.Find(9)
	assert.False(t, ok)
}

func TestLoad_FailureIsLenient(t *testing.T) {
	r := &fakeResource{items: []item{{1, "a"}}}
	s := newScreen(r)
	require.NoError(t, s.Load(context.Background()))

	r.listErr = &apperr.TransportError{Err: errors.New("dial tcp: refused")}
	assert.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Items())

	r.listErr = &apperr.AuthError{}
	assert.True(t, apperr.IsAuth(s.Load(context.Background())))
}

func TestCreate_ValidationBlocksNetwork(t *testing.T) {
	r := &fakeResource{}
	s := newScreen(r)

	err := s.Create(context.Background(), itemForm{})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Empty(t, r.calls)
}

func TestCreate_RefetchesOnSuccess(t *testing.T) {
	r := &fakeResource{}
	s := newScreen(r)

	require.NoError(t, s.Create(context.Background(), itemForm{Name: "new"}))
	assert.Equal(t, []string{"create", "list"}, r.calls)
	assert.Len(t, s.Items(), 1)
}

func TestCreate_ServerFieldsBecomeValidation(t *testing.T) {
	r := &fakeResource{createErr: &apperr.ServerError{Status: 422, Fields: map[string]string{"nombre": "too long"}}}
	s := newScreen(r).MapFields(map[string]string{"nombre": "name"})

	err := s.Create(context.Background(), itemForm{Name: "x"})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "too long", ve.Fields["name"])
	assert.Equal(t, []string{"create"}, r.calls)
}

func TestCreate_ServerDetailStaysGeneral(t *testing.T) {
	r := &fakeResource{createErr: &apperr.ServerError{Status: 403, Detail: "forbidden"}}
	s := newScreen(r)

	err := s.Create(context.Background(), itemForm{Name: "x"})
	se, ok := apperr.AsServer(err)
	require.True(t, ok)
	assert.Equal(t, "forbidden", se.Detail)
}

func TestUpdate_RefetchesOnSuccess(t *testing.T) {
	r := &fakeResource{items: []item{{1, "a"}}}
	s := newScreen(r)

	require.NoError(t, s.Update(context.Background(), 1, itemForm{Name: "z"}))
	assert.Equal(t, []string{"update", "list"}, r.calls)
	it, _ := s.Find(1)
	assert.Equal(t, "z", it.Name)
}

func TestDelete_RemovesOnlyThatItem(t *testing.T) {
	r := &fakeResource{items: []item{{1, "a"}, {2, "b"}}}
	s := newScreen(r)
	require.NoError(t, s.Load(context.Background()))
	r.calls = nil

	deleted, err := s.Delete(context.Background(), 1, true)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []item{{2, "b"}}, s.Items())
	assert.Equal(t, []string{"delete"}, r.calls)
}

func TestDelete_UnconfirmedDispatchesNothing(t *testing.T) {
	r := &fakeResource{items: []item{{1, "a"}}}
	s := newScreen(r)
	require.NoError(t, s.Load(context.Background()))
	r.calls = nil

	deleted, err := s.Delete(context.Background(), 1, false)
	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, r.calls)
	assert.Len(t, s.Items(), 1)
}

func TestDelete_FailureKeepsItem(t *testing.T) {
	r := &fakeResource{items: []item{{1, "a"}}, deleteErr: &apperr.ServerError{Status: 500}}
	s := newScreen(r)
	require.NoError(t, s.Load(context.Background()))

	deleted, err := s.Delete(context.Background(), 1, true)
	assert.Error(t, err)
	assert.False(t, deleted)
	assert.Len(t, s.Items(), 1)
}
