package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered participant on the platform.
type User struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreateTime   time.Time
	UpdateTime   time.Time
}

// Company is an organization publishing problems on the platform.
type Company struct {
	CompanyID  string
	Name       string
	ManagedBy  string
	CreateTime time.Time
	UpdateTime time.Time
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// FunctionParameter is one argument of the function a problem asks for.
type FunctionParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type FunctionReturn struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FunctionSignature describes the function the solver must implement. It is
// stored as JSONB alongside the problem.
type FunctionSignature struct {
	Name       string              `json:"name"`
	Parameters []FunctionParameter `json:"parameters"`
	Return     FunctionReturn      `json:"return"`
}

// Example is a worked input/output pair shown in the problem statement.
// Input and Output hold arbitrary JSON values.
type Example struct {
	Input       json.RawMessage `json:"input"`
	Output      json.RawMessage `json:"output"`
	Explanation string          `json:"explanation"`
}

// TestCase is one judge input and the output it must produce.
type TestCase struct {
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
}

// Problem is a coding problem users solve in practice or in a battle.
type Problem struct {
	ProblemID   string
	Title       string
	Slug        string
	Difficulty  Difficulty
	Topic       string
	Tags        []string
	Description string
	Function    FunctionSignature
	Constraints []string
	Examples    []Example
	TestCases   []TestCase
	CreateTime  time.Time
	UpdateTime  time.Time
}

// Submission is a practice submission for a problem, outside any battle.
type Submission struct {
	SubmissionID string
	UserID       string
	ProblemID    string
	Result       string
	Language     string
	Code         string
	SubmitTime   time.Time
}

// SubmissionStats aggregates a user's practice submissions.
type SubmissionStats struct {
	UserID         string
	Total          int64
	Accepted       int64
	AcceptanceRate decimal.Decimal
}

const ResultAccepted = "accepted"

// BattleSubmission is one player's outcome inside a battle room. It carries
// the judge metrics the winner cascade compares, not the code itself.
type BattleSubmission struct {
	CalculationTimeMs int64
	MemoryUsageKb     int64
	Result            string
	TestResults       []bool
}

// PassCount returns the number of passing entries in TestResults.
func (s BattleSubmission) PassCount() int {
	n := 0
	for _, ok := range s.TestResults {
		if ok {
			n++
		}
	}
	return n
}

// Accepted reports whether the submission passed the full judge run.
func (s BattleSubmission) Accepted() bool {
	return s.Result == ResultAccepted
}

// Pairing is what a queued user learns once an opponent is found.
type Pairing struct {
	RoomID    string
	ProblemID string
}

// WinnerTie marks a verdict with no winner.
const WinnerTie = "tie"

// Verdict is the resolved outcome of a room: the winning user's ID (or
// WinnerTie) plus a human-readable reason naming the deciding criterion.
type Verdict struct {
	Winner string
	Reason string
}

func (v Verdict) Tie() bool { return v.Winner == WinnerTie }

// Room is a live 1-v-1 battle binding two players to one problem.
type Room struct {
	RoomID     string
	PlayerA    string
	PlayerB    string
	ProblemID  string
	CreateTime time.Time
}

// Has reports whether the user is one of the room's two players.
func (r Room) Has(userID string) bool {
	return r.PlayerA == userID || r.PlayerB == userID
}

// Opponent returns the other player of the room. The caller must be a
// member of the room.
func (r Room) Opponent(userID string) string {
	if r.PlayerA == userID {
		return r.PlayerB
	}
	return r.PlayerA
}
