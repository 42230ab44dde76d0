package method

import (
	"context"
	"encoding/json"
	"fmt"

	"chessbench/internal/board"
	"chessbench/internal/llm"
	"chessbench/internal/logging"
)

// managerPhase names the state of the hierarchical machine, for logging.
type managerPhase string

const (
	phaseBriefing       managerPhase = "briefing"
	phaseAnalystReports managerPhase = "analyst_reports"
	phaseManagerDraft   managerPhase = "manager_draft"
	phaseLegalityCheck  managerPhase = "legality_check"
	phaseFinalize       managerPhase = "finalize"
)

const (
	managerSystemPrompt = "You are a methodical and precise Chess Manager and a chess grandmaster. Your goal " +
		"is to decide the best chess move for a given FEN position. You will receive the current FEN, a " +
		"report from a Risk Analyst, and a report from a Strategy Analyst. Review all of the provided " +
		"information carefully, then formulate a candidate chess move in UCI format. Ensure pawn promotions " +
		"are lowercase (e.g. e7e8q). Your candidate will be checked for legality by a Positional Analyst; " +
		"if it is reported illegal you MUST formulate a NEW, DIFFERENT move. " +
		"You MUST respond ONLY with a single JSON object of the form " +
		"{\"move\": \"<uci>\", \"justification\": \"<brief reason>\"}. No other text."

	riskAnalystPrompt = "You are a Chess Risk Analyst. Given a FEN position, provide a concise textual " +
		"summary identifying potential risks, tactical dangers, or immediate threats for the side to move."

	strategyAnalystPrompt = "You are a Chess Strategy Analyst. Given a FEN position, provide a concise " +
		"textual summary outlining potential short-term and long-term strategic plans or goals for the side to move."

	positionalAnalystPrompt = "You are a highly precise Chess Positional Analyst. Your ONLY task is to " +
		"determine the legality of a given chess move (in UCI format) for a specific FEN position. You MUST " +
		"respond ONLY with a single, valid JSON object containing exactly these keys: " +
		"\"is_legal\": boolean (true if the move is legal), " +
		"\"checked_move_uci\": string (the move you analyzed, with any uppercase promotion letter corrected " +
		"to lowercase, e.g. 'E7E8Q' becomes 'e7e8q'), " +
		"\"reason\": string (if illegal, a brief explanation; if legal, 'Move is legal.'). " +
		"DO NOT SAY THAT IT IS LEGAL IF IT IS NOT."
)

// paVerdict is the PositionalAnalyst tool's structured reply.
type paVerdict struct {
	IsLegal        bool   `json:"is_legal"`
	CheckedMoveUCI string `json:"checked_move_uci"`
	Reason         string `json:"reason"`
}

// managerDraft is the manager's structured move submission.
type managerDraft struct {
	Move          string `json:"move"`
	Justification string `json:"justification"`
}

// ManagerAnalysts is the hierarchical method: two analysts brief a manager,
// the manager drafts a move, and an in-protocol PositionalAnalyst tool
// checks the draft's legality before submission. The tool's verdict only
// steers the resubmission loop; the external oracle stays authoritative for
// the final legality check.
type ManagerAnalysts struct {
	client       llm.Client
	managerModel string
	analystModel string
	resubmits    int
	log          *logging.Logger
}

// NewManagerAnalysts creates the manager/analysts method. resubmits caps
// how many times the manager may redraft after an illegality verdict, so
// the manager gets resubmits+1 draft attempts in total.
func NewManagerAnalysts(client llm.Client, managerModel, analystModel string, resubmits int, log *logging.Logger) *ManagerAnalysts {
	if resubmits < 0 {
		resubmits = 0
	}
	return &ManagerAnalysts{
		client:       client,
		managerModel: managerModel,
		analystModel: analystModel,
		resubmits:    resubmits,
		log:          log.WithMethod("manager"),
	}
}

// Name implements Method.
func (m *ManagerAnalysts) Name() string { return "manager" }

// Resolve implements Method. Any proposer failure at any role collapses
// immediately to a rejection.
func (m *ManagerAnalysts) Resolve(ctx context.Context, pos *board.Position) Outcome {
	fen := pos.FEN()

	m.log.Debug("requesting analyst reports", "phase", string(phaseAnalystReports))
	riskReport, err := m.analystReport(ctx, riskAnalystPrompt, fmt.Sprintf("FEN: %s. Analyze risks.", fen))
	if err != nil {
		m.log.Warn("risk analyst failed", "error", err)
		return rejected(ReasonProposerFailure, fmt.Sprintf("risk analyst: %v", err))
	}
	strategyReport, err := m.analystReport(ctx, strategyAnalystPrompt, fmt.Sprintf("FEN: %s. Analyze strategy.", fen))
	if err != nil {
		m.log.Warn("strategy analyst failed", "error", err)
		return rejected(ReasonProposerFailure, fmt.Sprintf("strategy analyst: %v", err))
	}

	briefing := fmt.Sprintf(
		"Current FEN: %s\n\nRisk Analyst's Report:\n%s\n\nStrategy Analyst's Report:\n%s\n\n"+
			"Based on these reports, formulate your candidate move. Start by analyzing the board so you "+
			"understand it, then answer with only the JSON object.",
		fen, riskReport, strategyReport)
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: managerSystemPrompt},
		{Role: llm.RoleUser, Content: briefing},
	}

	// Draft loop: one initial attempt plus the configured resubmissions.
	attempts := m.resubmits + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		log := m.log.With("attempt", attempt)

		log.Debug("awaiting manager draft", "phase", string(phaseManagerDraft))
		draft, err := m.draftMove(ctx, &history)
		if err != nil {
			log.Warn("manager draft failed", "error", err)
			return rejected(ReasonProposerFailure, fmt.Sprintf("manager draft: %v", err))
		}
		if draft.Move == "" {
			log.Warn("manager draft contained no move")
			return rejected(ReasonMalformed, "manager draft contained no move")
		}
		candidate := board.NormalizeUCI(draft.Move)
		log.Debug("manager drafted", "move", candidate, "justification", draft.Justification)

		log.Debug("consulting positional analyst", "phase", string(phaseLegalityCheck))
		verdict, err := m.checkLegality(ctx, fen, candidate)
		if err != nil {
			log.Warn("positional analyst failed", "error", err)
			return rejected(ReasonProposerFailure, fmt.Sprintf("positional analyst: %v", err))
		}

		if verdict.IsLegal {
			move := board.NormalizeUCI(verdict.CheckedMoveUCI)
			if move == "" {
				move = candidate
			}
			log.Debug("draft approved", "move", move, "phase", string(phaseFinalize))
			// The oracle has the last word; a tool verdict the oracle
			// disagrees with still rejects here.
			return finalize(pos, move)
		}

		log.Debug("draft rejected by tool", "move", candidate, "reason", verdict.Reason)
		feedback, _ := json.Marshal(verdict)
		history = append(history, llm.Message{
			Role: llm.RoleUser,
			Content: fmt.Sprintf("The Positional Analyst verdict was: %s\n"+
				"Your move was reported illegal. Formulate a NEW, DIFFERENT legal move and answer "+
				"with only the JSON object.", feedback),
		})
	}

	m.log.Warn("manager exhausted draft attempts", "attempts", attempts)
	return rejected(ReasonIllegalMove, fmt.Sprintf("no legal draft after %d attempts", attempts))
}

// analystReport runs one free-text analyst call.
func (m *ManagerAnalysts) analystReport(ctx context.Context, system, user string) (string, error) {
	return m.client.Complete(ctx, llm.Request{
		Model: m.analystModel,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
	})
}

// draftMove asks the manager for its next structured candidate and appends
// the exchange to the manager's conversation history.
func (m *ManagerAnalysts) draftMove(ctx context.Context, history *[]llm.Message) (managerDraft, error) {
	reply, err := m.client.Complete(ctx, llm.Request{
		Model:     m.managerModel,
		Messages:  *history,
		ForceJSON: true,
	})
	if err != nil {
		return managerDraft{}, err
	}
	*history = append(*history, llm.Message{Role: llm.RoleAssistant, Content: reply})

	var draft managerDraft
	if err := json.Unmarshal([]byte(llm.SanitizeJSON(reply)), &draft); err != nil {
		// Salvage a move-shaped token before giving up on the draft.
		draft.Move = llm.ExtractUCIMove(reply)
	}
	return draft, nil
}

// checkLegality invokes the PositionalAnalyst validation tool. An
// unparseable verdict counts as an illegality report, not a failure: the
// manager simply redrafts.
func (m *ManagerAnalysts) checkLegality(ctx context.Context, fen, move string) (paVerdict, error) {
	user := fmt.Sprintf("FEN: %q. Proposed move (UCI): %q. Analyze legality and respond ONLY with the "+
		"specified JSON object. Start by analyzing the board so you understand it.", fen, move)
	reply, err := m.client.Complete(ctx, llm.Request{
		Model: m.analystModel,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: positionalAnalystPrompt},
			{Role: llm.RoleUser, Content: user},
		},
		ForceJSON: true,
	})
	if err != nil {
		return paVerdict{}, err
	}

	var verdict paVerdict
	if err := json.Unmarshal([]byte(llm.SanitizeJSON(reply)), &verdict); err != nil {
		return paVerdict{
			IsLegal:        false,
			CheckedMoveUCI: move,
			Reason:         "Positional Analyst response was not valid JSON.",
		}, nil
	}
	verdict.CheckedMoveUCI = board.NormalizeUCI(verdict.CheckedMoveUCI)
	return verdict, nil
}
