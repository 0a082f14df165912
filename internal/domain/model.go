package domain

import "time"

// Core domain models. Wire types live in the HTTP adapter; keep these
// decoupled where helpful.

type InterviewStatus string

const (
	StatusScheduled  InterviewStatus = "scheduled"
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)

func (s InterviewStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s InterviewStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Question is one entry of the sequence served during an interview. The
// sequence is captured once at start and never re-fetched.
type Question struct {
	Prompt   string   `json:"prompt"`
	Category string   `json:"category,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ScoreCard holds the four per-response scores produced by the scoring
// engine, each in [0,1]. A response is only ever persisted with a full card.
type ScoreCard struct {
	Sentiment  float64
	Confidence float64
	Clarity    float64
	Overall    float64
}

// Response is one scored answer to one question within an interview.
// QuestionNumber is 1-based and matches the question it answers.
type Response struct {
	QuestionNumber int
	Question       string
	Answer         string
	Sentiment      float64
	Confidence     float64
	Clarity        float64
	Overall        float64
	CreatedAt      time.Time
}

type Interview struct {
	ID            string
	CandidateID   string
	CandidateName string
	Role          string
	Status        InterviewStatus
	Questions     []Question
	CurrentIndex  int
	Responses     []Response
	OverallScore  *float64 // set iff Status == StatusCompleted
	ScheduledAt   *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewing   ApplicationStatus = "reviewing"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
)

// Application is the candidate/role pairing that seeds an interview.
type Application struct {
	ID              string
	CandidateID     string
	CandidateName   string
	Role            string
	CoverLetter     string
	PortfolioURL    string
	PortfolioDomain string // registrable domain of PortfolioURL, if any
	Status          ApplicationStatus
	CreatedAt       time.Time
}

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSending ReminderStatus = "sending"
	ReminderSent    ReminderStatus = "sent"
	ReminderFailed  ReminderStatus = "failed"
)

// Reminder is a scheduled notification for an upcoming interview.
type Reminder struct {
	ID           string
	InterviewID  string
	CandidateID  string
	Kind         string
	ScheduledFor time.Time
	Status       ReminderStatus
	SentAt       *time.Time
}

// CandidateFilter narrows the candidate directory listing. Filters are
// conjunctive; zero values mean "no filter".
type CandidateFilter struct {
	Role     string
	MinScore *float64
	Status   *InterviewStatus
}

// CandidateSummary is one row of the recruiter-facing directory.
type CandidateSummary struct {
	InterviewID   string
	CandidateID   string
	CandidateName string
	Role          string
	Status        InterviewStatus
	OverallScore  *float64
	CompletedAt   *time.Time
}

type RoleStats struct {
	Role         string
	Count        int
	AverageScore float64
}

// DashboardStats is recomputed from the interview set on every read.
type DashboardStats struct {
	TotalInterviews     int
	CompletedInterviews int
	AverageScore        float64
	ByRole              []RoleStats
}
