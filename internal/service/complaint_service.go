package service

import (
	"strings"
	"time"

	"grievance-service/internal/model"
	"grievance-service/internal/query"

	"github.com/google/uuid"
)

const maxImages = 5

// ComplaintStore is implemented by repository.ComplaintRepository.
type ComplaintStore interface {
	Create(c *model.Complaint) error
	FindByID(id string) (*model.Complaint, error)
	List() ([]model.Complaint, error)
	Transition(id string, next model.Status, note string) (*model.Complaint, error)
	CategoryStats() ([]model.CategoryStat, error)
}

type ComplaintService struct {
	complaints ComplaintStore
	now        func() time.Time
}

func NewComplaintService(complaints ComplaintStore) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		now:        time.Now,
	}
}

// Registers a new complaint: validates the request, stamps the submitted
// status with its first history entry, and persists it. The store assigns the
// GRV ID from the yearly sequence.
func (s *ComplaintService) CreateComplaint(req *model.CreateComplaintRequest) (*model.Complaint, error) {
	category, ok := model.CategoryByValue(req.Category)
	if !ok {
		return nil, &model.ValidationError{Field: "category", Reason: "unknown category " + req.Category}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, &model.ValidationError{Field: "priority", Reason: "must be low, medium, high or emergency"}
	}

	required := []struct {
		field string
		value string
	}{
		{"title", req.Title},
		{"description", req.Description},
		{"location", req.Location},
		{"submitted_by", req.SubmittedBy},
		{"contact_email", req.ContactEmail},
		{"contact_phone", req.ContactPhone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, &model.ValidationError{Field: f.field, Reason: "must not be empty"}
		}
	}
	if !strings.Contains(req.ContactEmail, "@") {
		return nil, &model.ValidationError{Field: "contact_email", Reason: "not a valid email address"}
	}

	if len(req.Images) > maxImages {
		return nil, &model.ValidationError{Field: "images", Reason: "at most 5 images allowed"}
	}

	var estimated *time.Time
	if req.EstimatedResolution != nil && *req.EstimatedResolution != "" {
		t, err := time.Parse("2006-01-02", *req.EstimatedResolution)
		if err != nil {
			return nil, &model.ValidationError{Field: "estimated_resolution", Reason: "must be a YYYY-MM-DD date"}
		}
		estimated = &t
	}

	now := s.now()
	complaint := &model.Complaint{
		Category:            category.Label,
		Priority:            priority,
		Status:              model.StatusSubmitted,
		Title:               strings.TrimSpace(req.Title),
		Description:         strings.TrimSpace(req.Description),
		Location:            strings.TrimSpace(req.Location),
		SubmittedBy:         strings.TrimSpace(req.SubmittedBy),
		ContactEmail:        strings.TrimSpace(req.ContactEmail),
		ContactPhone:        strings.TrimSpace(req.ContactPhone),
		Images:              req.Images,
		EstimatedResolution: estimated,
		CreatedAt:           now,
		UpdatedAt:           now,
		History: []model.HistoryEntry{
			{
				ID:        uuid.New(),
				Status:    model.StatusSubmitted,
				Note:      "Complaint registered successfully",
				CreatedAt: now,
			},
		},
	}

	if err := s.complaints.Create(complaint); err != nil {
		return nil, err
	}

	return complaint, nil
}

func (s *ComplaintService) GetComplaint(id string) (*model.Complaint, error) {
	// malformed IDs can't exist in the store, skip the lookup
	if !model.IDPattern.MatchString(id) {
		return nil, model.ErrNotFound
	}
	return s.complaints.FindByID(id)
}

// Transition advances a complaint to the next lifecycle status. The store
// serializes concurrent transitions on the same record and appends exactly
// one history entry on success.
func (s *ComplaintService) Transition(id string, next model.Status, note string) (*model.Complaint, error) {
	return s.complaints.Transition(id, next, note)
}

// Timeline builds the tracking page's step sequence for one complaint.
func (s *ComplaintService) Timeline(id string) ([]model.TimelineStep, error) {
	complaint, err := s.complaints.FindByID(id)
	if err != nil {
		return nil, err
	}
	return model.BuildTimeline(complaint)
}

// SearchComplaints lists complaints matching the dashboard criteria. The
// criteria combine conjunctively; empty term and "all" filters match
// everything, so the zero criteria returns the full listing unchanged.
func (s *ComplaintService) SearchComplaints(crit query.Criteria) (*model.ComplaintListResponse, error) {
	complaints, err := s.complaints.List()
	if err != nil {
		return nil, err
	}

	filtered := query.Filter(complaints, crit)

	return &model.ComplaintListResponse{
		Complaints: filtered,
		Total:      len(filtered),
	}, nil
}

func (s *ComplaintService) CategoryStats() ([]model.CategoryStat, error) {
	stats, err := s.complaints.CategoryStats()
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []model.CategoryStat{}
	}
	return stats, nil
}
