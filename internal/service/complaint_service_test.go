package service

import (
	"errors"
	"testing"
	"time"

	"grievance-service/internal/model"
	"grievance-service/internal/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeComplaintStore mirrors the repository's contract in memory: sequence
// based IDs, NotFound for unknown IDs, lifecycle-checked transitions with an
// appended history entry.
type fakeComplaintStore struct {
	seq        map[int]int
	complaints map[string]*model.Complaint
	order      []string
	createErr  error
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{
		seq:        make(map[int]int),
		complaints: make(map[string]*model.Complaint),
	}
}

func (f *fakeComplaintStore) Create(c *model.Complaint) error {
	if f.createErr != nil {
		return f.createErr
	}
	year := c.CreatedAt.Year()
	f.seq[year]++
	c.ID = model.FormatID(year, f.seq[year])
	f.complaints[c.ID] = c
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeComplaintStore) FindByID(id string) (*model.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return c, nil
}

func (f *fakeComplaintStore) List() ([]model.Complaint, error) {
	// newest first, like the repository
	out := make([]model.Complaint, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		out = append(out, *f.complaints[f.order[i]])
	}
	return out, nil
}

func (f *fakeComplaintStore) Transition(id string, next model.Status, note string) (*model.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if !model.CanTransition(c.Status, next) {
		return nil, &model.InvalidTransitionError{From: c.Status, To: next}
	}
	c.Status = next
	c.History = append(c.History, model.HistoryEntry{
		ID:        uuid.New(),
		Status:    next,
		Note:      note,
		CreatedAt: time.Now(),
	})
	return c, nil
}

func (f *fakeComplaintStore) CategoryStats() ([]model.CategoryStat, error) {
	counts := make(map[string]int)
	for _, id := range f.order {
		counts[f.complaints[id].Category]++
	}
	var stats []model.CategoryStat
	for name, count := range counts {
		stats = append(stats, model.CategoryStat{Name: name, Count: count})
	}
	return stats, nil
}

func validRequest() *model.CreateComplaintRequest {
	return &model.CreateComplaintRequest{
		Category:     "pothole",
		Priority:     model.PriorityHigh,
		Title:        "Large pothole causing traffic hazards",
		Description:  "Approximately 2 feet wide and 6 inches deep on the main road.",
		Location:     "MG Road, Near Central Bus Stop, Sector 5",
		SubmittedBy:  "Rahul Sharma",
		ContactEmail: "rahul@example.com",
		ContactPhone: "+91 98765 43210",
	}
}

func TestCreateComplaint(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	complaint, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^GRV-\d{4}-\d{4}$`, complaint.ID)
	assert.Equal(t, model.StatusSubmitted, complaint.Status)
	assert.Equal(t, "Potholes & Roads", complaint.Category)
	assert.Equal(t, model.PriorityHigh, complaint.Priority)

	require.Len(t, complaint.History, 1, "creation writes exactly the initial history entry")
	assert.Equal(t, model.StatusSubmitted, complaint.History[0].Status)
	assert.Equal(t, complaint.CreatedAt, complaint.History[0].CreatedAt)
}

func TestCreateComplaintDefaultsPriority(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	req := validRequest()
	req.Priority = ""

	complaint, err := svc.CreateComplaint(req)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, complaint.Priority)
}

func TestCreateComplaintDistinctIDs(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	first, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)
	second, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "identical inputs must still get distinct IDs")
}

func TestCreateComplaintStoreError(t *testing.T) {
	store := newFakeComplaintStore()
	store.createErr = errors.New("connection refused")
	svc := NewComplaintService(store)

	_, err := svc.CreateComplaint(validRequest())
	assert.EqualError(t, err, "connection refused")
}

func TestGetComplaintHighSequence(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	// year counters keep going past 9999, so the fifth digit must not make
	// the lookup short-circuit to NotFound
	id := model.FormatID(2024, 10000)
	store.complaints[id] = &model.Complaint{ID: id, Status: model.StatusSubmitted}
	store.order = append(store.order, id)

	got, err := svc.GetComplaint(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestCreateComplaintValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateComplaintRequest)
		field  string
	}{
		{"unknown category", func(r *model.CreateComplaintRequest) { r.Category = "graffiti" }, "category"},
		{"bad priority", func(r *model.CreateComplaintRequest) { r.Priority = "urgent" }, "priority"},
		{"blank title", func(r *model.CreateComplaintRequest) { r.Title = "   " }, "title"},
		{"blank description", func(r *model.CreateComplaintRequest) { r.Description = "" }, "description"},
		{"blank location", func(r *model.CreateComplaintRequest) { r.Location = "" }, "location"},
		{"blank name", func(r *model.CreateComplaintRequest) { r.SubmittedBy = "" }, "submitted_by"},
		{"bad email", func(r *model.CreateComplaintRequest) { r.ContactEmail = "not-an-email" }, "contact_email"},
		{"blank phone", func(r *model.CreateComplaintRequest) { r.ContactPhone = " " }, "contact_phone"},
		{
			"too many images",
			func(r *model.CreateComplaintRequest) {
				r.Images = []string{"a", "b", "c", "d", "e", "f"}
			},
			"images",
		},
		{
			"bad estimated resolution",
			func(r *model.CreateComplaintRequest) {
				bad := "20-12-2024"
				r.EstimatedResolution = &bad
			},
			"estimated_resolution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeComplaintStore()
			svc := NewComplaintService(store)

			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateComplaint(req)
			var validationErr *model.ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Empty(t, store.complaints, "nothing may be stored on validation failure")
		})
	}
}

func TestCreateComplaintFiveImagesAllowed(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	req := validRequest()
	req.Images = []string{"a", "b", "c", "d", "e"}

	complaint, err := svc.CreateComplaint(req)
	require.NoError(t, err)
	assert.Len(t, complaint.Images, 5)
}

func TestTransitionAppendsExactlyOneEntry(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	created, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)

	updated, err := svc.Transition(created.ID, model.StatusAssigned, "Assigned for review")
	require.NoError(t, err)

	assert.Equal(t, model.StatusAssigned, updated.Status)
	require.Len(t, updated.History, 2)
	assert.Equal(t, model.StatusAssigned, updated.History[1].Status)
	assert.Equal(t, "Assigned for review", updated.History[1].Note)
}

func TestTransitionFailureLeavesHistoryUnchanged(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	created, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)

	_, err = svc.Transition(created.ID, model.StatusResolved, "")
	var transitionErr *model.InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, model.StatusSubmitted, transitionErr.From)
	assert.Equal(t, model.StatusResolved, transitionErr.To)

	stored, err := svc.GetComplaint(created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 1, "failed transition must not touch history")
	assert.Equal(t, model.StatusSubmitted, stored.Status)
}

func TestTransitionUnknownComplaint(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintStore())

	_, err := svc.Transition("GRV-2024-9999", model.StatusAssigned, "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSearchComplaints(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	_, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)

	waste := validRequest()
	waste.Category = "waste"
	waste.Title = "Garbage not collected"
	_, err = svc.CreateComplaint(waste)
	require.NoError(t, err)

	response, err := svc.SearchComplaints(query.Criteria{Term: "garbage", Status: query.All, Category: "waste"})
	require.NoError(t, err)
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "Garbage not collected", response.Complaints[0].Title)

	all, err := svc.SearchComplaints(query.Criteria{Term: "", Status: query.All, Category: query.All})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
}

func TestTimeline(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store)

	created, err := svc.CreateComplaint(validRequest())
	require.NoError(t, err)

	steps, err := svc.Timeline(created.ID)
	require.NoError(t, err)
	require.Len(t, steps, len(model.StatusOrder))
	assert.True(t, steps[0].Completed)
	for _, step := range steps[1:] {
		assert.False(t, step.Completed)
	}

	_, err = svc.Timeline("GRV-2024-9999")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
