package model

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadClosed    LeadStatus = "closed"
)

type Lead struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	ProjectType string     `json:"project_type"`
	Message     string     `json:"message"`
	Status      LeadStatus `json:"status"`
	Source      string     `json:"source"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Estimate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProjectType string    `json:"project_type"`
	BudgetRange string    `json:"budget_range"`
	Timeline    string    `json:"timeline"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Testimonial struct {
	ID          int64     `json:"id"`
	ClientName  string    `json:"client_name"`
	Location    string    `json:"location"`
	Rating      int       `json:"rating"`
	Text        string    `json:"text"`
	ProjectType string    `json:"project_type"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
}
