package aggregation

import (
	"strconv"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// NoModel is the most-used model when no record carries model data.
const NoModel = "n/a"

// Summary is the headline metric set of one view. Rates and averages are
// one-decimal strings; counts stay integers.
type Summary struct {
	ActiveUsers            int             `json:"active_users" yaml:"active_users"`
	TotalInteractions      decimal.Decimal `json:"total_interactions" yaml:"total_interactions"`
	TotalCompletions       decimal.Decimal `json:"total_completions" yaml:"total_completions"`
	TotalAcceptances       decimal.Decimal `json:"total_acceptances" yaml:"total_acceptances"`
	AcceptanceRate         string          `json:"acceptance_rate" yaml:"acceptance_rate"`
	AvgInteractionsPerUser string          `json:"avg_interactions_per_user" yaml:"avg_interactions_per_user"`

	ChatUsers              int             `json:"chat_users" yaml:"chat_users"`
	AgentUsers             int             `json:"agent_users" yaml:"agent_users"`
	ChatRequests           decimal.Decimal `json:"chat_requests" yaml:"chat_requests"`
	AvgChatRequestsPerUser string          `json:"avg_chat_requests_per_chat_user" yaml:"avg_chat_requests_per_chat_user"`
	AgentAdoption          string          `json:"agent_adoption" yaml:"agent_adoption"`

	MostUsedModel         string `json:"most_used_model" yaml:"most_used_model"`
	LatestWeekActiveUsers int    `json:"latest_week_active_users" yaml:"latest_week_active_users"`
	DistinctDays          int    `json:"distinct_days" yaml:"distinct_days"`
}

// Summarize computes the summary of records.
func Summarize(records []v1.UsageRecord, catalog FeatureCatalog) Summary {
	s := Summary{
		ActiveUsers:           DistinctUsers(records),
		TotalInteractions:     decimal.Zero,
		TotalCompletions:      decimal.Zero,
		TotalAcceptances:      decimal.Zero,
		ChatRequests:          decimal.Zero,
		LatestWeekActiveUsers: LatestWeekActiveUsers(records),
		DistinctDays:          DistinctDays(records),
	}

	chatUsers := make(map[v1.UserID]struct{})
	agentUsers := make(map[v1.UserID]struct{})
	models := NewSums()

	for _, r := range records {
		s.TotalInteractions = s.TotalInteractions.Add(r.Interactions())
		s.TotalCompletions = s.TotalCompletions.Add(r.Completions())
		s.TotalAcceptances = s.TotalAcceptances.Add(r.Acceptances())

		var chat, agent bool
		for _, f := range r.TotalsByFeature {
			if !catalog.IsChat(f.Feature) {
				continue
			}
			chat = true
			s.ChatRequests = s.ChatRequests.Add(f.Interactions())
			if f.Feature == catalog.AgentFeature {
				agent = true
			}
		}
		if chat {
			chatUsers[r.UserID] = struct{}{}
		}
		if agent {
			agentUsers[r.UserID] = struct{}{}
		}

		ModelInteractions(r, models.Add)
	}

	s.ChatUsers = len(chatUsers)
	s.AgentUsers = len(agentUsers)
	s.AcceptanceRate = FormatRate(s.TotalAcceptances, s.TotalCompletions)
	s.AvgInteractionsPerUser = Average(s.TotalInteractions, s.ActiveUsers)
	s.AvgChatRequestsPerUser = Average(s.ChatRequests, s.ChatUsers)
	s.AgentAdoption = FormatRate(decimal.NewFromInt(int64(s.AgentUsers)), decimal.NewFromInt(int64(s.ActiveUsers)))
	s.MostUsedModel = v1.LabelOr(topLabel(models), NoModel)
	return s
}

// MetricCard is one labelled summary value.
type MetricCard struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Cards lists the summary in display order.
func (s Summary) Cards() []MetricCard {
	return []MetricCard{
		{Label: "Total Active Users", Value: strconv.Itoa(s.ActiveUsers)},
		{Label: "Total Interactions", Value: s.TotalInteractions.String()},
		{Label: "Code Completions", Value: s.TotalCompletions.String()},
		{Label: "Completions Accepted", Value: s.TotalAcceptances.String()},
		{Label: "Completion Acceptance Rate %", Value: s.AcceptanceRate},
		{Label: "Avg Interactions / User", Value: s.AvgInteractionsPerUser},
		{Label: "Avg Chat Requests / Chat User", Value: s.AvgChatRequestsPerUser},
		{Label: "Agent Adoption %", Value: s.AgentAdoption},
		{Label: "Most Used Chat Model", Value: s.MostUsedModel},
		{Label: "Weekly Active Users (Latest)", Value: strconv.Itoa(s.LatestWeekActiveUsers)},
		{Label: "Distinct Days", Value: strconv.Itoa(s.DistinctDays)},
	}
}
