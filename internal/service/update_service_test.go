package service

import (
	"errors"
	"testing"

	"grievance-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpdateStore struct {
	updates []*model.Update
}

func (f *fakeUpdateStore) Create(update *model.Update) error {
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeUpdateStore) ListByComplaint(complaintID string) ([]model.Update, error) {
	var out []model.Update
	// newest first, like the repository
	for i := len(f.updates) - 1; i >= 0; i-- {
		if f.updates[i].ComplaintID == complaintID {
			out = append(out, *f.updates[i])
		}
	}
	return out, nil
}

func TestPostUpdate(t *testing.T) {
	complaints := newFakeComplaintStore()
	updates := &fakeUpdateStore{}
	svc := NewUpdateService(updates, complaints)

	created, err := NewComplaintService(complaints).CreateComplaint(validRequest())
	require.NoError(t, err)

	update, err := svc.PostUpdate(created.ID, "  Repair team dispatched to the location.  ", "Roads & Infrastructure Department")
	require.NoError(t, err)

	assert.Equal(t, created.ID, update.ComplaintID)
	assert.Equal(t, "Repair team dispatched to the location.", update.Message)
	assert.Equal(t, "Roads & Infrastructure Department", update.From)
	require.Len(t, updates.updates, 1)
}

func TestPostUpdateDefaultsSender(t *testing.T) {
	complaints := newFakeComplaintStore()
	updates := &fakeUpdateStore{}
	svc := NewUpdateService(updates, complaints)

	created, err := NewComplaintService(complaints).CreateComplaint(validRequest())
	require.NoError(t, err)

	update, err := svc.PostUpdate(created.ID, "Looking into it", "")
	require.NoError(t, err)
	assert.Equal(t, "System", update.From)
}

func TestPostUpdateValidation(t *testing.T) {
	complaints := newFakeComplaintStore()
	svc := NewUpdateService(&fakeUpdateStore{}, complaints)

	created, err := NewComplaintService(complaints).CreateComplaint(validRequest())
	require.NoError(t, err)

	_, err = svc.PostUpdate(created.ID, "   ", "System")
	var validationErr *model.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "message", validationErr.Field)
}

func TestPostUpdateUnknownComplaint(t *testing.T) {
	svc := NewUpdateService(&fakeUpdateStore{}, newFakeComplaintStore())

	_, err := svc.PostUpdate("GRV-2024-9999", "hello", "System")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListUpdates(t *testing.T) {
	complaints := newFakeComplaintStore()
	updates := &fakeUpdateStore{}
	svc := NewUpdateService(updates, complaints)

	created, err := NewComplaintService(complaints).CreateComplaint(validRequest())
	require.NoError(t, err)

	_, err = svc.PostUpdate(created.ID, "first", "System")
	require.NoError(t, err)
	_, err = svc.PostUpdate(created.ID, "second", "System")
	require.NoError(t, err)

	response, err := svc.ListUpdates(created.ID)
	require.NoError(t, err)
	require.Equal(t, 2, response.Total)
	assert.Equal(t, "second", response.Updates[0].Message, "newest first")

	_, err = svc.ListUpdates("GRV-2024-9999")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
