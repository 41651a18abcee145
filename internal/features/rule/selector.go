package rule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go-court/internal/oracle"

	"github.com/d5/tengo/v2"
)

// ErrNoCandidates means a selector was called with an empty candidate
// set, which is a caller precondition violation.
var ErrNoCandidates = errors.New("no candidate rules")

// maxCandidates bounds the set handed to the oracle: cost grows and
// accuracy degrades with excessive context.
const maxCandidates = 10

// RuleSelector picks one rule from a bounded candidate set and turns it
// into an assignment.
type RuleSelector interface {
	Select(ctx context.Context, summary CaseSummary, candidates []Rule) (*Assignment, error)
}

// sortByPriority orders candidates high -> medium -> low, stable within
// a priority band.
func sortByPriority(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityRank(sorted[i].Priority) < priorityRank(sorted[j].Priority)
	})
	return sorted
}

func assignmentFrom(r Rule) *Assignment {
	return &Assignment{
		RuleID:        r.ID.Hex(),
		Priority:      r.Priority,
		SignerEmail:   r.SignerEmail,
		ReviewerEmail: r.ReviewerEmail,
	}
}

// DeterministicSelector is the default and fallback strategy: scripted
// conditions filter the candidates, then incident-type equality wins,
// then priority.
type DeterministicSelector struct{}

func NewDeterministicSelector() *DeterministicSelector {
	return &DeterministicSelector{}
}

func (s *DeterministicSelector) Select(_ context.Context, summary CaseSummary, candidates []Rule) (*Assignment, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	sorted := sortByPriority(candidates)

	// Scripted conditions narrow the field; a filter that rejects every
	// candidate is ignored so the selector still returns something.
	filtered := make([]Rule, 0, len(sorted))
	for _, r := range sorted {
		if evalCondition(r.Condition, summary) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		filtered = sorted
	}

	for _, r := range filtered {
		if strings.EqualFold(r.IncidentType, summary.IncidentType) {
			return assignmentFrom(r), nil
		}
	}

	return assignmentFrom(filtered[0]), nil
}

// evalCondition runs a rule condition as a tengo expression against the
// case attributes. Conditions that do not compile are prose, not
// scripts, and never exclude a candidate.
func evalCondition(condition string, summary CaseSummary) bool {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return true
	}

	script := tengo.NewScript([]byte("ok := (" + condition + ")"))
	script.Add("type_of_incident", summary.IncidentType)
	script.Add("date_of_incident", summary.IncidentDate)
	script.Add("contact_email", summary.ContactEmail)

	compiled, err := script.Compile()
	if err != nil {
		return true
	}
	if err := compiled.Run(); err != nil {
		return true
	}

	ok := compiled.Get("ok")
	if !ok.IsUndefined() && ok.Object() != tengo.TrueValue && ok.Object() != tengo.FalseValue {
		// Expression evaluated to a non-boolean: prose after all.
		return true
	}
	return ok.Bool()
}

// OracleSelector delegates the choice to a text-completion oracle. The
// oracle output is untrusted: only rule_id is read, it must name one of
// the candidates, and any malformed response degrades to the
// deterministic strategy. Transport failures surface as
// oracle.ErrUnavailable so callers can log the outage, fall back and
// continue.
type OracleSelector struct {
	Oracle   oracle.Client
	Fallback RuleSelector
}

func NewOracleSelector(client oracle.Client, fallback RuleSelector) *OracleSelector {
	return &OracleSelector{
		Oracle:   client,
		Fallback: fallback,
	}
}

func (s *OracleSelector) Select(ctx context.Context, summary CaseSummary, candidates []Rule) (*Assignment, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	trimmed := sortByPriority(candidates)
	if len(trimmed) > maxCandidates {
		trimmed = trimmed[:maxCandidates]
	}

	response, err := s.Oracle.Complete(ctx, buildPrompt(summary, trimmed))
	if err != nil {
		return nil, err
	}

	chosen := parseChoice(response, trimmed)
	if chosen == nil {
		return s.Fallback.Select(ctx, summary, trimmed)
	}
	return assignmentFrom(*chosen), nil
}

func buildPrompt(summary CaseSummary, rules []Rule) string {
	var b strings.Builder

	caseJSON, _ := json.MarshalIndent(summary, "", "  ")
	b.WriteString("CASE:\n")
	b.Write(caseJSON)
	b.WriteString("\n\nRULES:\n")

	for i, r := range rules {
		fmt.Fprintf(&b, "Rule %d: id=%s, type=%s, priority=%s, signer=%s, reviewer=%s\n",
			i+1, r.ID.Hex(), r.IncidentType, r.Priority, r.SignerEmail, r.ReviewerEmail)
	}

	b.WriteString("\nReturn JSON: {\"rule_id\": \"...\", \"priority\":\"...\", \"signer_email\":\"...\", \"reviewer_email\":\"...\"}")
	return b.String()
}

// parseChoice extracts the first JSON object from the oracle's free-form
// output and resolves it to a candidate. Only the rule_id is trusted;
// emails and priority always come from the stored rule.
func parseChoice(response string, candidates []Rule) *Rule {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil
	}

	var out struct {
		RuleID string `json:"rule_id"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &out); err != nil {
		return nil
	}

	for i := range candidates {
		if candidates[i].ID.Hex() == out.RuleID {
			return &candidates[i]
		}
	}
	return nil
}
