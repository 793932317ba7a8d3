package model

import "time"

// DripStep identifies one message of the fixed drip sequence.
type DripStep string

const (
	StepWelcome          DripStep = "welcome"
	StepDay2Portfolio    DripStep = "day2_portfolio"
	StepDay5Consultation DripStep = "day5_consultation"
)

type DripJobStatus string

const (
	DripJobPending  DripJobStatus = "pending"
	DripJobDone     DripJobStatus = "done"
	DripJobSkipped  DripJobStatus = "skipped"
	DripJobCanceled DripJobStatus = "canceled"
	DripJobFailed   DripJobStatus = "failed"
)

// EmailSubscriber is a lead that entered the drip funnel. Email is unique:
// capturing the same lead twice never enrols a second sequence.
type EmailSubscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Source    string    `json:"source"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DripJob is the persisted "next fire time" for one step of one subscriber's
// sequence. Jobs survive restarts; the sweeper picks up whatever is due.
type DripJob struct {
	ID           int64         `json:"id"`
	SubscriberID int64         `json:"subscriber_id"`
	Step         DripStep      `json:"step"`
	RunAt        time.Time     `json:"run_at"`
	Status       DripJobStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// EmailCampaignSend records one drip email actually sent. The (subscriber,
// step) pair is unique, which is what makes duplicate firing harmless.
type EmailCampaignSend struct {
	ID           int64     `json:"id"`
	SubscriberID int64     `json:"subscriber_id"`
	Step         DripStep  `json:"step"`
	Subject      string    `json:"subject"`
	SentAt       time.Time `json:"sent_at"`
	Opened       bool      `json:"opened"`
	Clicked      bool      `json:"clicked"`
}
