package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Account roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Election status constants
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

const MinPasswordLength = 6

var (
	civicIDPattern = regexp.MustCompile(`^\d{12}$`)
	emailPattern   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// ValidCivicID reports whether id is a 12-digit civic identifier.
func ValidCivicID(id string) bool {
	return civicIDPattern.MatchString(id)
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Domain types

type Account struct {
	ID           string    `json:"id"`
	CivicID      string    `json:"civicId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	HasVoted     []string  `json:"hasVoted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Election struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Candidate struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"electionId"`
	Seq        int       `json:"-"` // insertion order within the election
	Name       string    `json:"name"`
	Party      string    `json:"party"`
	SymbolURL  string    `json:"symbolUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Ballot struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voterId"`
	ElectionID  string    `json:"electionId"`
	CandidateID string    `json:"candidateId"`
	CastAt      time.Time `json:"castAt"`
}

// Request types

type RegisterRequest struct {
	CivicID  string `json:"civicId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	r.CivicID = strings.TrimSpace(r.CivicID)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)

	if r.CivicID == "" || r.Email == "" || r.Name == "" || r.Password == "" {
		return errors.New("civicId, email, name and password are required")
	}
	if !ValidCivicID(r.CivicID) {
		return errors.New("civicId must be exactly 12 digits")
	}
	if !ValidEmail(r.Email) {
		return errors.New("email is not valid")
	}
	if len(r.Password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

type LoginRequest struct {
	CivicID  string `json:"civicId"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.CivicID = strings.TrimSpace(r.CivicID)
	if r.CivicID == "" || r.Password == "" {
		return errors.New("civicId and password are required")
	}
	return nil
}

// UpdateProfileRequest changes the caller's own profile. Nil fields are left
// untouched; the civic identifier cannot be changed.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		r.Name = &name
	}
	if r.Email != nil {
		email := NormalizeEmail(*r.Email)
		if !ValidEmail(email) {
			return errors.New("email is not valid")
		}
		r.Email = &email
	}
	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

type CreateElectionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

func (r *CreateElectionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errors.New("startTime and endTime are required")
	}
	if !r.EndTime.After(r.StartTime) {
		return errors.New("endTime must be after startTime")
	}
	return nil
}

// UpdateElectionRequest is a partial update; nil fields are unchanged.
type UpdateElectionRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}

func (r *UpdateElectionRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		r.Name = &name
	}
	return nil
}

// ChangesTiming reports whether the patch touches the election window.
func (r UpdateElectionRequest) ChangesTiming() bool {
	return r.StartTime != nil || r.EndTime != nil
}

type CandidateRequest struct {
	Name      string `json:"name"`
	Party     string `json:"party"`
	SymbolURL string `json:"symbolUrl"`
}

func (r *CandidateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Party = strings.TrimSpace(r.Party)
	r.SymbolURL = strings.TrimSpace(r.SymbolURL)
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateCandidateRequest struct {
	Name      *string `json:"name,omitempty"`
	Party     *string `json:"party,omitempty"`
	SymbolURL *string `json:"symbolUrl,omitempty"`
}

func (r *UpdateCandidateRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		r.Name = &name
	}
	return nil
}

type CastVoteRequest struct {
	ElectionID  string `json:"electionId"`
	CandidateID string `json:"candidateId"`
}

func (r *CastVoteRequest) Validate() error {
	r.ElectionID = strings.TrimSpace(r.ElectionID)
	r.CandidateID = strings.TrimSpace(r.CandidateID)
	if r.ElectionID == "" || r.CandidateID == "" {
		return errors.New("electionId and candidateId are required")
	}
	return nil
}

// Response types

type AuthResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// ElectionView is an election as served to clients, with its status derived
// at read time and human-readable window labels.
type ElectionView struct {
	Election
	OpensIn  string `json:"opensIn,omitempty"`
	ClosesIn string `json:"closesIn,omitempty"`
}

type ElectionDetail struct {
	Election   ElectionView `json:"election"`
	Candidates []Candidate  `json:"candidates"`
}

type CandidateResult struct {
	CandidateID string  `json:"candidateId"`
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	Votes       int     `json:"votes"`
	Percentage  float64 `json:"percentage"`
	Rank        int     `json:"rank"` // 1-indexed, equal counts share a rank
}

type ElectionResults struct {
	ElectionID     string            `json:"electionId"`
	ElectionName   string            `json:"electionName"`
	Status         string            `json:"status"`
	TotalVotesCast int               `json:"totalVotesCast"`
	Results        []CandidateResult `json:"results"`
}

type CastVoteResponse struct {
	BallotID string `json:"ballotId"`
	Message  string `json:"message"`
}

type Stats struct {
	TotalVoters        int `json:"totalVoters"`
	VerifiedVoters     int `json:"verifiedVoters"`
	TotalElections     int `json:"totalElections"`
	PendingElections   int `json:"pendingElections"`
	ActiveElections    int `json:"activeElections"`
	CompletedElections int `json:"completedElections"`
	TotalVotes         int `json:"totalVotes"`
}

// LedgerPair is one (account, election) voting record.
type LedgerPair struct {
	AccountID  string `json:"accountId"`
	ElectionID string `json:"electionId"`
}

type IntegrityReport struct {
	CheckedAt          time.Time    `json:"checkedAt"`
	Ballots            int          `json:"ballots"`
	VotedFlags         int          `json:"votedFlags"`
	BallotsWithoutFlag []LedgerPair `json:"ballotsWithoutFlag"`
	FlagsWithoutBallot []LedgerPair `json:"flagsWithoutBallot"`
	Consistent         bool         `json:"consistent"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
