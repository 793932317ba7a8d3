// Package memory implements the repository interfaces over in-process maps.
// It backs the "memory" storage driver used for local development and tests;
// the backend is chosen by configuration, never by probing for a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

type data struct {
	mu sync.RWMutex

	nextID int64

	projects      map[int64]model.Project
	projectLogs   map[int64]model.ProjectLog
	milestones    map[int64]model.Milestone
	leads         map[int64]model.Lead
	estimates     map[int64]model.Estimate
	messages      map[int64]model.Message
	testimonials  map[int64]model.Testimonial
	subscribers   map[int64]model.EmailSubscriber
	dripJobs      map[int64]model.DripJob
	campaignSends map[int64]model.EmailCampaignSend
	users         map[int64]model.User
	chatSessions  map[int64]model.ChatSession
	chatMessages  map[int64]model.ChatMessage
}

func (d *data) id() int64 {
	d.nextID++
	return d.nextID
}

// NewStore returns a Store where every repository shares one lock and one
// id sequence.
func NewStore() *repository.Store {
	d := &data{
		projects:      make(map[int64]model.Project),
		projectLogs:   make(map[int64]model.ProjectLog),
		milestones:    make(map[int64]model.Milestone),
		leads:         make(map[int64]model.Lead),
		estimates:     make(map[int64]model.Estimate),
		messages:      make(map[int64]model.Message),
		testimonials:  make(map[int64]model.Testimonial),
		subscribers:   make(map[int64]model.EmailSubscriber),
		dripJobs:      make(map[int64]model.DripJob),
		campaignSends: make(map[int64]model.EmailCampaignSend),
		users:         make(map[int64]model.User),
		chatSessions:  make(map[int64]model.ChatSession),
		chatMessages:  make(map[int64]model.ChatMessage),
	}
	return &repository.Store{
		Projects:      &projectRepo{d},
		ProjectLogs:   &projectLogRepo{d},
		Milestones:    &milestoneRepo{d},
		Leads:         &leadRepo{d},
		Estimates:     &estimateRepo{d},
		Messages:      &messageRepo{d},
		Testimonials:  &testimonialRepo{d},
		Subscribers:   &subscriberRepo{d},
		DripJobs:      &dripJobRepo{d},
		CampaignSends: &campaignSendRepo{d},
		Users:         &userRepo{d},
		Chat:          &chatRepo{d},
	}
}

type projectRepo struct{ d *data }

func (r *projectRepo) Create(_ context.Context, p *model.Project) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p.ID = r.d.id()
	p.CreatedAt = time.Now()
	r.d.projects[p.ID] = *p
	return nil
}

func (r *projectRepo) FindByID(_ context.Context, id int64) (*model.Project, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	p, ok := r.d.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *projectRepo) FindByToken(_ context.Context, token string) (*model.Project, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, p := range r.d.projects {
		if p.AccessToken == token {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *projectRepo) List(_ context.Context) ([]model.Project, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	projects := make([]model.Project, 0, len(r.d.projects))
	for _, p := range r.d.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return projects, nil
}

func (r *projectRepo) Update(_ context.Context, p *model.Project) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.projects[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.AccessToken = stored.AccessToken
	p.CreatedAt = stored.CreatedAt
	r.d.projects[p.ID] = *p
	return nil
}

func (r *projectRepo) UpdateToken(_ context.Context, id int64, token string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.AccessToken = token
	r.d.projects[id] = p
	return nil
}

type projectLogRepo struct{ d *data }

func (r *projectLogRepo) Insert(_ context.Context, l *model.ProjectLog) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	l.ID = r.d.id()
	l.CreatedAt = time.Now()
	r.d.projectLogs[l.ID] = *l
	return nil
}

func (r *projectLogRepo) ListByProject(_ context.Context, projectID int64) ([]model.ProjectLog, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	logs := []model.ProjectLog{}
	for _, l := range r.d.projectLogs {
		if l.ProjectID == projectID {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID > logs[j].ID })
	return logs, nil
}

type milestoneRepo struct{ d *data }

func (r *milestoneRepo) Insert(_ context.Context, m *model.Milestone) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	m.ID = r.d.id()
	m.CreatedAt = time.Now()
	r.d.milestones[m.ID] = *m
	return nil
}

func (r *milestoneRepo) FindByID(_ context.Context, id int64) (*model.Milestone, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	m, ok := r.d.milestones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *milestoneRepo) ListByProject(_ context.Context, projectID int64) ([]model.Milestone, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	milestones := []model.Milestone{}
	for _, m := range r.d.milestones {
		if m.ProjectID == projectID {
			milestones = append(milestones, m)
		}
	}
	sort.Slice(milestones, func(i, j int) bool {
		if milestones[i].SortOrder != milestones[j].SortOrder {
			return milestones[i].SortOrder < milestones[j].SortOrder
		}
		return milestones[i].ID < milestones[j].ID
	})
	return milestones, nil
}

func (r *milestoneRepo) Update(_ context.Context, m *model.Milestone) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.milestones[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	m.ProjectID = stored.ProjectID
	m.CreatedAt = stored.CreatedAt
	r.d.milestones[m.ID] = *m
	return nil
}

type leadRepo struct{ d *data }

func (r *leadRepo) Insert(_ context.Context, l *model.Lead) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	l.ID = r.d.id()
	l.CreatedAt = time.Now()
	r.d.leads[l.ID] = *l
	return nil
}

func (r *leadRepo) FindByID(_ context.Context, id int64) (*model.Lead, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	l, ok := r.d.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *leadRepo) List(_ context.Context) ([]model.Lead, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	leads := make([]model.Lead, 0, len(r.d.leads))
	for _, l := range r.d.leads {
		leads = append(leads, l)
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].ID > leads[j].ID })
	return leads, nil
}

func (r *leadRepo) UpdateStatus(_ context.Context, id int64, status model.LeadStatus) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	l, ok := r.d.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Status = status
	r.d.leads[id] = l
	return nil
}

type estimateRepo struct{ d *data }

func (r *estimateRepo) Insert(_ context.Context, e *model.Estimate) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	e.ID = r.d.id()
	e.CreatedAt = time.Now()
	r.d.estimates[e.ID] = *e
	return nil
}

func (r *estimateRepo) List(_ context.Context) ([]model.Estimate, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	estimates := make([]model.Estimate, 0, len(r.d.estimates))
	for _, e := range r.d.estimates {
		estimates = append(estimates, e)
	}
	sort.Slice(estimates, func(i, j int) bool { return estimates[i].ID > estimates[j].ID })
	return estimates, nil
}

func (r *estimateRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	e, ok := r.d.estimates[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Status = status
	r.d.estimates[id] = e
	return nil
}

type messageRepo struct{ d *data }

func (r *messageRepo) Insert(_ context.Context, m *model.Message) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	m.ID = r.d.id()
	m.CreatedAt = time.Now()
	r.d.messages[m.ID] = *m
	return nil
}

func (r *messageRepo) List(_ context.Context) ([]model.Message, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	messages := make([]model.Message, 0, len(r.d.messages))
	for _, m := range r.d.messages {
		messages = append(messages, m)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (r *messageRepo) MarkRead(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	m, ok := r.d.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Read = true
	r.d.messages[id] = m
	return nil
}

type testimonialRepo struct{ d *data }

func (r *testimonialRepo) Insert(_ context.Context, t *model.Testimonial) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t.ID = r.d.id()
	t.CreatedAt = time.Now()
	r.d.testimonials[t.ID] = *t
	return nil
}

func (r *testimonialRepo) List(_ context.Context, publishedOnly bool) ([]model.Testimonial, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	testimonials := []model.Testimonial{}
	for _, t := range r.d.testimonials {
		if publishedOnly && !t.Published {
			continue
		}
		testimonials = append(testimonials, t)
	}
	sort.Slice(testimonials, func(i, j int) bool { return testimonials[i].ID > testimonials[j].ID })
	return testimonials, nil
}

type subscriberRepo struct{ d *data }

func (r *subscriberRepo) Insert(_ context.Context, s *model.EmailSubscriber) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.subscribers {
		if existing.Email == s.Email {
			return repository.ErrDuplicate
		}
	}
	s.ID = r.d.id()
	s.CreatedAt = time.Now()
	r.d.subscribers[s.ID] = *s
	return nil
}

func (r *subscriberRepo) FindByID(_ context.Context, id int64) (*model.EmailSubscriber, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	s, ok := r.d.subscribers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *subscriberRepo) FindByEmail(_ context.Context, email string) (*model.EmailSubscriber, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, s := range r.d.subscribers {
		if s.Email == email {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *subscriberRepo) List(_ context.Context) ([]model.EmailSubscriber, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	subscribers := make([]model.EmailSubscriber, 0, len(r.d.subscribers))
	for _, s := range r.d.subscribers {
		subscribers = append(subscribers, s)
	}
	sort.Slice(subscribers, func(i, j int) bool { return subscribers[i].ID > subscribers[j].ID })
	return subscribers, nil
}

func (r *subscriberRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	s, ok := r.d.subscribers[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Active = active
	r.d.subscribers[id] = s
	return nil
}

type dripJobRepo struct{ d *data }

func (r *dripJobRepo) Insert(_ context.Context, j *model.DripJob) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.dripJobs {
		if existing.SubscriberID == j.SubscriberID && existing.Step == j.Step {
			return repository.ErrDuplicate
		}
	}
	j.ID = r.d.id()
	j.CreatedAt = time.Now()
	r.d.dripJobs[j.ID] = *j
	return nil
}

func (r *dripJobRepo) DueBefore(_ context.Context, t time.Time) ([]model.DripJob, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	jobs := []model.DripJob{}
	for _, j := range r.d.dripJobs {
		if j.Status == model.DripJobPending && !j.RunAt.After(t) {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

func (r *dripJobRepo) UpdateStatus(_ context.Context, id int64, status model.DripJobStatus) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	j, ok := r.d.dripJobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	j.Status = status
	r.d.dripJobs[id] = j
	return nil
}

func (r *dripJobRepo) CancelPendingBySubscriber(_ context.Context, subscriberID int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for id, j := range r.d.dripJobs {
		if j.SubscriberID == subscriberID && j.Status == model.DripJobPending {
			j.Status = model.DripJobCanceled
			r.d.dripJobs[id] = j
		}
	}
	return nil
}

type campaignSendRepo struct{ d *data }

func (r *campaignSendRepo) Insert(_ context.Context, s *model.EmailCampaignSend) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.campaignSends {
		if existing.SubscriberID == s.SubscriberID && existing.Step == s.Step {
			return repository.ErrDuplicate
		}
	}
	s.ID = r.d.id()
	s.SentAt = time.Now()
	r.d.campaignSends[s.ID] = *s
	return nil
}

func (r *campaignSendRepo) List(_ context.Context) ([]model.EmailCampaignSend, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	sends := make([]model.EmailCampaignSend, 0, len(r.d.campaignSends))
	for _, s := range r.d.campaignSends {
		sends = append(sends, s)
	}
	sort.Slice(sends, func(i, j int) bool { return sends[i].ID > sends[j].ID })
	return sends, nil
}

func (r *campaignSendRepo) ListBySubscriber(_ context.Context, subscriberID int64) ([]model.EmailCampaignSend, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	sends := []model.EmailCampaignSend{}
	for _, s := range r.d.campaignSends {
		if s.SubscriberID == subscriberID {
			sends = append(sends, s)
		}
	}
	sort.Slice(sends, func(i, j int) bool { return sends[i].ID < sends[j].ID })
	return sends, nil
}

type userRepo struct{ d *data }

func (r *userRepo) Insert(_ context.Context, u *model.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.users {
		if existing.Username == u.Username {
			*u = existing
			return nil
		}
	}
	u.ID = r.d.id()
	u.CreatedAt = time.Now()
	r.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, u := range r.d.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type chatRepo struct{ d *data }

func (r *chatRepo) CreateSession(_ context.Context, s *model.ChatSession) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	s.ID = r.d.id()
	s.CreatedAt = time.Now()
	r.d.chatSessions[s.ID] = *s
	return nil
}

func (r *chatRepo) FindSession(_ context.Context, id int64) (*model.ChatSession, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	s, ok := r.d.chatSessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *chatRepo) InsertMessage(_ context.Context, m *model.ChatMessage) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.chatSessions[m.SessionID]; !ok {
		return repository.ErrNotFound
	}
	m.ID = r.d.id()
	m.CreatedAt = time.Now()
	r.d.chatMessages[m.ID] = *m
	return nil
}

func (r *chatRepo) ListMessages(_ context.Context, sessionID int64) ([]model.ChatMessage, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	messages := []model.ChatMessage{}
	for _, m := range r.d.chatMessages {
		if m.SessionID == sessionID {
			messages = append(messages, m)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}
