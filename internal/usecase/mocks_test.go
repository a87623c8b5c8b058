package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"skilllink/internal/domain/demand"
	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/job"
	"skilllink/internal/domain/skill"
	"skilllink/internal/domain/user"
	"skilllink/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]user.User
	err    error
	rated  []float64
	skills map[uuid.UUID][]user.WorkerSkill
}

func newMockUserRepo(us ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: map[uuid.UUID]user.User{}, skills: map[uuid.UUID][]user.WorkerSkill{}}
	for _, u := range us {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) ReplaceWorkerSkills(_ context.Context, userID uuid.UUID, skills []user.WorkerSkill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skills[userID] = skills
	u := m.users[userID]
	u.Worker.Skills = skills
	m.users[userID] = u
	return nil
}

// foldRating stands in for the rating update the job repository runs inside
// its completion transaction.
func (m *mockUserRepo) foldRating(userID uuid.UUID, rating float64) (user.Ratings, error) {
	if m == nil {
		return user.Ratings{}, repository.ErrUserNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return user.Ratings{}, repository.ErrUserNotFound
	}
	u.Ratings = u.Ratings.AddRating(rating)
	m.users[userID] = u
	m.rated = append(m.rated, rating)
	return u.Ratings, nil
}

type mockJobRepo struct {
	jobs       map[uuid.UUID]job.Job
	candidates []job.Job
	listFilter job.ListFilter
	listTotal  int
	err        error

	statusCalls  []job.Status
	assigned     *uuid.UUID
	applications []job.Application
	applyErr     error

	rateErr    error
	rateInputs []repository.RatingInput
	// workers receives the owner's rating when a job completes.
	workers *mockUserRepo

	candidateBox   geo.Box
	candidateLimit int
}

func newMockJobRepo(js ...job.Job) *mockJobRepo {
	m := &mockJobRepo{jobs: map[uuid.UUID]job.Job{}}
	for _, j := range js {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockJobRepo) Create(_ context.Context, j job.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if m.err != nil {
		return job.Job{}, m.err
	}
	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *mockJobRepo) List(_ context.Context, f job.ListFilter) ([]job.Job, int, error) {
	m.listFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]job.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out, m.listTotal, nil
}

func (m *mockJobRepo) FindMatchCandidates(_ context.Context, _ []string, box geo.Box, limit int) ([]job.Job, error) {
	m.candidateBox = box
	m.candidateLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockJobRepo) UpdateStatus(_ context.Context, id uuid.UUID, status job.Status, assignedWorker *uuid.UUID) error {
	j, ok := m.jobs[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	m.statusCalls = append(m.statusCalls, status)
	m.assigned = assignedWorker
	j.Status = status
	if assignedWorker != nil {
		j.AssignedWorkerID = assignedWorker
	}
	m.jobs[id] = j
	return nil
}

// RecordRating mirrors the transactional repository: nothing is stored when
// folding the worker's rating fails.
func (m *mockJobRepo) RecordRating(_ context.Context, in repository.RatingInput) (repository.RatingResult, error) {
	m.rateInputs = append(m.rateInputs, in)
	if m.rateErr != nil {
		return repository.RatingResult{}, m.rateErr
	}
	j, ok := m.jobs[in.JobID]
	if !ok || j.Status == job.StatusOpen || j.Status == job.StatusCompleted || j.Status == job.StatusCancelled {
		return repository.RatingResult{}, repository.ErrJobNotRateable
	}

	rating := in.Rating
	c := j.Completion
	if in.ByBusiness {
		c.BusinessRating, c.BusinessReview = &rating, in.Review
	} else {
		c.WorkerRating, c.WorkerReview = &rating, in.Review
		if len(in.Proof) > 0 {
			c.ProofOfWork = in.Proof
		}
	}
	j.Completion = c

	var res repository.RatingResult
	if c.BothRated() {
		now := time.Now().UTC()
		j.Status = job.StatusCompleted
		j.Completion.CompletedAt = &now
		res.Completed = true
		if j.AssignedWorkerID != nil {
			ratings, err := m.workers.foldRating(*j.AssignedWorkerID, *c.BusinessRating)
			if err != nil {
				return repository.RatingResult{}, err
			}
			res.WorkerRatings = &ratings
		}
	}
	m.jobs[in.JobID] = j
	res.Job = j
	return res, nil
}

func (m *mockJobRepo) Apply(_ context.Context, a job.Application) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applications = append(m.applications, a)
	return nil
}

type mockSkillRepo struct {
	mu      sync.Mutex
	skills  map[uuid.UUID]skill.Skill
	related []skill.Skill
	err     error

	upserted     []skill.Skill
	upsertRel    [][]string
	listFilter   repository.SkillListFilter
	relatedNames []string
	byNamesArg   []string
	updated      map[uuid.UUID]demand.Metrics
	failUpdate   map[uuid.UUID]bool
}

func newMockSkillRepo(ss ...skill.Skill) *mockSkillRepo {
	m := &mockSkillRepo{
		skills:     map[uuid.UUID]skill.Skill{},
		updated:    map[uuid.UUID]demand.Metrics{},
		failUpdate: map[uuid.UUID]bool{},
	}
	for _, s := range ss {
		m.skills[s.ID] = s
	}
	return m
}

func (m *mockSkillRepo) Upsert(_ context.Context, s skill.Skill, related []string) (skill.Skill, error) {
	if m.err != nil {
		return skill.Skill{}, m.err
	}
	m.upserted = append(m.upserted, s)
	m.upsertRel = append(m.upsertRel, related)
	s.ID = uuid.New()
	return s, nil
}

func (m *mockSkillRepo) List(_ context.Context, f repository.SkillListFilter) ([]skill.Skill, int, error) {
	m.listFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]skill.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockSkillRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return skill.Skill{}, m.err
	}
	s, ok := m.skills[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (m *mockSkillRepo) FindByNames(_ context.Context, names []string) ([]skill.Skill, error) {
	m.byNamesArg = names
	if m.err != nil {
		return nil, m.err
	}
	out := make([]skill.Skill, 0)
	for _, n := range names {
		for _, s := range m.skills {
			if skill.Key(s.Name) == skill.Key(n) {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *mockSkillRepo) FindRelatedTo(_ context.Context, names []string) ([]skill.Skill, error) {
	m.relatedNames = names
	if m.err != nil {
		return nil, m.err
	}
	return m.related, nil
}

func (m *mockSkillRepo) ListActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]uuid.UUID, 0, len(m.skills))
	for id, s := range m.skills {
		if s.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockSkillRepo) UpdateDemand(_ context.Context, id uuid.UUID, dm demand.Metrics) (skill.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate[id] {
		return skill.Skill{}, context.DeadlineExceeded
	}
	s, ok := m.skills[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	m.updated[id] = dm
	s.CurrentDemandPct = dm.CurrentDemandPct
	s.GrowthRatePct = dm.GrowthRatePct
	at := dm.LastUpdated
	s.DemandUpdatedAt = &at
	m.skills[id] = s
	return s, nil
}

type mockDemandQueries struct {
	mu      sync.Mutex
	times   map[uuid.UUID][]time.Time
	workers map[uuid.UUID]int
	nearby  []repository.NearbyJob
	since   time.Time
	err     error
}

func (m *mockDemandQueries) JobTimesForSkill(_ context.Context, skillID uuid.UUID, since time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.since = since
	if m.err != nil {
		return nil, m.err
	}
	return m.times[skillID], nil
}

func (m *mockDemandQueries) CountWorkersWithSkill(_ context.Context, skillID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.workers[skillID], nil
}

func (m *mockDemandQueries) NearbyJobSkillSets(_ context.Context, _ geo.Box, since time.Time) ([]repository.NearbyJob, error) {
	m.since = since
	if m.err != nil {
		return nil, m.err
	}
	return m.nearby, nil
}

// memCache stores JSON in memory; patterns only support a trailing '*'.
type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	patterns []string
	deleted  []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	updated []skill.Skill
}

func (n *recordingNotifier) SkillDemandUpdated(s skill.Skill) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated = append(n.updated, s)
}

func workerAt(p geo.Point, skills ...user.WorkerSkill) user.User {
	return user.User{
		ID:   uuid.New(),
		Role: user.RoleWorker,
		Profile: user.Profile{
			Location:       p,
			SearchRadiusKm: 10,
		},
		Worker: user.WorkerDetails{Skills: skills, IsAvailableNow: true},
	}
}
