package model

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// Rank orders priorities by urgency. Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityEmergency:
		return 4
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type Category struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Department string `json:"department"`
}

// Categories is the fixed set of complaint categories. The label is what
// citizens see and what the dashboard's category filter matches against.
var Categories = []Category{
	{Value: "pothole", Label: "Potholes & Roads", Department: "Roads & Infrastructure Department"},
	{Value: "streetlight", Label: "Street Lights", Department: "Electrical Department"},
	{Value: "water", Label: "Water Supply", Department: "Water Works Department"},
	{Value: "waste", Label: "Waste Management", Department: "Sanitation Department"},
	{Value: "traffic", Label: "Traffic Signals", Department: "Traffic Police Department"},
	{Value: "drainage", Label: "Drainage Issues", Department: "Water Works Department"},
	{Value: "public-wifi", Label: "Public WiFi", Department: "IT & Infrastructure Department"},
	{Value: "safety", Label: "Public Safety", Department: "Municipal Safety Department"},
}

// CategoryByValue resolves a category by its machine value ("waste").
func CategoryByValue(value string) (Category, bool) {
	for _, c := range Categories {
		if c.Value == value {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByLabel resolves a category by its display label ("Waste Management").
func CategoryByLabel(label string) (Category, bool) {
	for _, c := range Categories {
		if c.Label == label {
			return c, true
		}
	}
	return Category{}, false
}

type HistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Complaint struct {
	ID                  string         `json:"id"`
	Category            string         `json:"category"`
	Priority            Priority       `json:"priority"`
	Status              Status         `json:"status"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Location            string         `json:"location"`
	SubmittedBy         string         `json:"submitted_by"`
	ContactEmail        string         `json:"contact_email"`
	ContactPhone        string         `json:"contact_phone"`
	Images              []string       `json:"images"`
	AssignedTo          *string        `json:"assigned_to,omitempty"`
	EstimatedResolution *time.Time     `json:"estimated_resolution,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	History             []HistoryEntry `json:"history"`
}

type TimelineStep struct {
	Status      Status `json:"status"`
	Label       string `json:"label"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

type Update struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	Message     string    `json:"message"`
	From        string    `json:"from"`
	CreatedAt   time.Time `json:"created_at"`
}

// Request/Response DTOs
type CreateComplaintRequest struct {
	Category            string   `json:"category" binding:"required"`
	Priority            Priority `json:"priority"`
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description" binding:"required"`
	Location            string   `json:"location" binding:"required"`
	SubmittedBy         string   `json:"submitted_by" binding:"required"`
	ContactEmail        string   `json:"contact_email" binding:"required"`
	ContactPhone        string   `json:"contact_phone" binding:"required"`
	Images              []string `json:"images"`
	EstimatedResolution *string  `json:"estimated_resolution,omitempty"` // RFC 3339 date
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type PostUpdateRequest struct {
	Message string `json:"message" binding:"required"`
}

type ComplaintListResponse struct {
	Complaints []Complaint `json:"complaints"`
	Total      int         `json:"total"`
}

type UpdateListResponse struct {
	Updates []Update `json:"updates"`
	Total   int      `json:"total"`
}

type CategoryStat struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}
