package service

import (
	"strings"
	"time"

	"grievance-service/internal/model"

	"github.com/google/uuid"
)

// UpdateStore is implemented by repository.UpdateRepository.
type UpdateStore interface {
	Create(update *model.Update) error
	ListByComplaint(complaintID string) ([]model.Update, error)
}

// UpdateService handles the department update messages on a complaint.
type UpdateService struct {
	updates    UpdateStore
	complaints ComplaintStore
	now        func() time.Time
}

func NewUpdateService(updates UpdateStore, complaints ComplaintStore) *UpdateService {
	return &UpdateService{
		updates:    updates,
		complaints: complaints,
		now:        time.Now,
	}
}

// PostUpdate records a message from a department on an existing complaint.
func (s *UpdateService) PostUpdate(complaintID, message, from string) (*model.Update, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &model.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if from == "" {
		from = "System"
	}

	// reject updates on unknown complaints up front
	if _, err := s.complaints.FindByID(complaintID); err != nil {
		return nil, err
	}

	update := &model.Update{
		ID:          uuid.New(),
		ComplaintID: complaintID,
		Message:     strings.TrimSpace(message),
		From:        from,
		CreatedAt:   s.now(),
	}

	if err := s.updates.Create(update); err != nil {
		return nil, err
	}

	return update, nil
}

// ListUpdates returns a complaint's update feed, newest first.
func (s *UpdateService) ListUpdates(complaintID string) (*model.UpdateListResponse, error) {
	if _, err := s.complaints.FindByID(complaintID); err != nil {
		return nil, err
	}

	updates, err := s.updates.ListByComplaint(complaintID)
	if err != nil {
		return nil, err
	}
	if updates == nil {
		updates = []model.Update{}
	}

	return &model.UpdateListResponse{
		Updates: updates,
		Total:   len(updates),
	}, nil
}
