package model

import "time"

type ProjectStatus string

const (
	ProjectConsultation ProjectStatus = "consultation"
	ProjectInProgress   ProjectStatus = "in-progress"
	ProjectCompleted    ProjectStatus = "completed"
	ProjectOnHold       ProjectStatus = "on-hold"
)

// ValidProjectStatus reports whether s is one of the known project states.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectConsultation, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Project is one client engagement. AccessToken is the magic-link capability:
// anyone holding the string can read the full record, so it must stay out of
// logs and must only ever come from a high-entropy random source.
type Project struct {
	ID                  int64         `json:"id"`
	ClientName          string        `json:"client_name"`
	ClientEmail         string        `json:"client_email"`
	ClientPhone         string        `json:"client_phone"`
	ProjectType         string        `json:"project_type"`
	Status              ProjectStatus `json:"status"`
	Budget              float64       `json:"budget"`
	Progress            int           `json:"progress"`
	Manager             string        `json:"manager"`
	EstimatedCompletion string        `json:"estimated_completion"`
	Tags                []string      `json:"tags"`
	Overdue             bool          `json:"overdue"`
	Address             string        `json:"address"`
	Notes               string        `json:"notes"`
	AccessToken         string        `json:"access_token"`
	CreatedAt           time.Time     `json:"created_at"`
	CompletedAt         *time.Time    `json:"completed_at,omitempty"`
}

// ProjectLog is an append-only audit entry. Never updated or deleted.
type ProjectLog struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

type Milestone struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      MilestoneStatus `json:"status"`
	SortOrder   int             `json:"sort_order"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
