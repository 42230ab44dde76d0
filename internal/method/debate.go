package method

import (
	"context"
	"fmt"

	"chessbench/internal/board"
	"chessbench/internal/llm"
	"chessbench/internal/logging"
)

// debatePhase names the state of the debate machine. Phases exist for
// logging and transcripts; transitions are driven purely by the round
// counter, so the machine cannot loop.
type debatePhase string

const (
	phaseOpening  debatePhase = "opening"
	phaseRebuttal debatePhase = "rebuttal"
	phaseClosing  debatePhase = "closing"
	phaseResolved debatePhase = "resolved"
)

// Debater personas. Alpha argues for aggressive, tactical play; Beta for
// solid, positional play. The stances are the point: disagreement first,
// synthesis by the final round.
const (
	personaAlpha = "You are Chess Debater Alpha. You are a chess grandmaster. You are analytical, daring, " +
		"and prefer aggressive, tactical solutions. Your primary goal is to argue for the objectively " +
		"strongest chess move for the provided FEN string. Emphasize tactical advantages, direct threats, " +
		"and forcing sequences. When proposing a chess move, you MUST state it clearly in UCI format " +
		"(e.g. e2e4) within your reasoning. Any move you propose or discuss MUST be a strictly legal " +
		"chess move for the given FEN position. Be on point and concise."

	personaBeta = "You are Chess Debater Beta. You are a chess grandmaster. You are cautious, strategic, " +
		"and prefer solid, positional solutions. Your primary goal is to argue for the objectively " +
		"strongest chess move for the provided FEN string. Emphasize long-term positional soundness, " +
		"king safety, pawn structure, and piece coordination. When proposing a chess move, you MUST " +
		"state it clearly in UCI format (e.g. e2e4) within your reasoning. Any move you propose or " +
		"discuss MUST be a strictly legal chess move for the given FEN position. Be on point and concise."
)

// Turn is one statement in the debate transcript.
type Turn struct {
	Round     int
	Phase     debatePhase
	Speaker   string
	Statement string
	Move      string // move extracted from the statement, "" if none
}

// Transcript is the ordered debate record for one position. It lives only
// for the duration of that position's resolution.
type Transcript []Turn

// TwoAgentDebate runs a fixed-round debate between the Alpha and Beta
// personas and carries forward the final round's proposal. The debate
// always runs its full round count, even if the personas converge early.
type TwoAgentDebate struct {
	client llm.Client
	model  string
	rounds int
	log    *logging.Logger
}

// NewTwoAgentDebate creates the debate method with a fixed round count.
func NewTwoAgentDebate(client llm.Client, model string, rounds int, log *logging.Logger) *TwoAgentDebate {
	if rounds < 1 {
		rounds = 1
	}
	return &TwoAgentDebate{
		client: client,
		model:  model,
		rounds: rounds,
		log:    log.WithMethod("debate"),
	}
}

// Name implements Method.
func (d *TwoAgentDebate) Name() string { return "debate" }

// Rounds returns the configured round count.
func (d *TwoAgentDebate) Rounds() int { return d.rounds }

func (d *TwoAgentDebate) phaseFor(round int) debatePhase {
	switch {
	case round == 1:
		return phaseOpening
	case round == d.rounds:
		return phaseClosing
	default:
		return phaseRebuttal
	}
}

// instructionFor returns the per-round task given to both personas.
func (d *TwoAgentDebate) instructionFor(round int) string {
	switch d.phaseFor(round) {
	case phaseOpening:
		return "Present your initial, strong, independent analysis of the FEN position and propose the " +
			"single best move from your unique perspective. Justify your choice thoroughly based on your " +
			"defined persona. The move MUST be legal for the FEN."
	case phaseClosing:
		return "This is the final round. Based on the entire discussion, what is your definitive final " +
			"proposed move? State your final selected move very clearly and distinctly in UCI format, " +
			"for example: 'My final proposed move is: e2e4'. This move MUST be legal for the FEN. " +
			"Provide a concise justification summarizing the key arguments."
	default:
		if round == 2 {
			return "Review your opponent's previous argument. Provide a strong, direct counter-argument " +
				"to their main points and proposed move. Vigorously defend and reaffirm your own proposal, " +
				"or adjust it if their points are overwhelmingly compelling, explaining why. All moves " +
				"discussed MUST be legal for the FEN."
		}
		return "The goal is now to start finding common ground, though full agreement isn't necessary yet. " +
			"Acknowledge any valid points your opponent has made and discuss potential compromises. If your " +
			"original move is still the best move, do not change it. All moves discussed MUST be legal for the FEN."
	}
}

// Resolve implements Method. Either persona failing at any round collapses
// the whole debate to a rejection; a partial debate never falls back to the
// other persona's last statement.
func (d *TwoAgentDebate) Resolve(ctx context.Context, pos *board.Position) Outcome {
	fen := pos.FEN()
	alphaHistory := []llm.Message{{Role: llm.RoleSystem, Content: personaAlpha}}
	betaHistory := []llm.Message{{Role: llm.RoleSystem, Content: personaBeta}}

	var transcript Transcript
	var latestAlpha, latestBeta string

	for round := 1; round <= d.rounds; round++ {
		log := d.log.WithRound(round)
		instruction := d.instructionFor(round)

		alphaPrompt := fmt.Sprintf("The FEN is: %s. Round %d: %s", fen, round, instruction)
		if round > 1 {
			alphaPrompt = fmt.Sprintf("The FEN is: %s. It's Round %d. Review Beta's last statement: %q. Your task: %s",
				fen, round, latestBeta, instruction)
		}
		statement, err := d.speak(ctx, &alphaHistory, alphaPrompt)
		if err != nil {
			log.Warn("alpha statement failed", "error", err)
			return rejected(ReasonProposerFailure, fmt.Sprintf("round %d, alpha: %v", round, err))
		}
		latestAlpha = statement
		transcript = append(transcript, Turn{
			Round: round, Phase: d.phaseFor(round), Speaker: "alpha",
			Statement: statement, Move: llm.ExtractUCIMove(statement),
		})

		betaPrompt := fmt.Sprintf("The FEN is: %s. It's Round %d. Review Alpha's statement this round: %q. Your task: %s",
			fen, round, latestAlpha, instruction)
		if round == 1 {
			betaPrompt = fmt.Sprintf("The FEN is: %s. Round %d: %s", fen, round, instruction)
		}
		statement, err = d.speak(ctx, &betaHistory, betaPrompt)
		if err != nil {
			log.Warn("beta statement failed", "error", err)
			return rejected(ReasonProposerFailure, fmt.Sprintf("round %d, beta: %v", round, err))
		}
		latestBeta = statement
		transcript = append(transcript, Turn{
			Round: round, Phase: d.phaseFor(round), Speaker: "beta",
			Statement: statement, Move: llm.ExtractUCIMove(statement),
		})
	}

	// Resolution: the final round's statements carry the decision, Beta's
	// closing statement first.
	final := llm.ExtractUCIMove(latestBeta)
	if final == "" {
		final = llm.ExtractUCIMove(latestAlpha)
	}
	if final == "" {
		d.log.Warn("debate produced no extractable move")
		return rejected(ReasonMalformed, "no UCI move in either closing statement")
	}

	d.log.Debug("debate resolved", "move", final, "turns", len(transcript), "phase", phaseResolved)
	return finalize(pos, final)
}

// speak sends the persona's next prompt with its full private history and
// appends both sides of the exchange to that history.
func (d *TwoAgentDebate) speak(ctx context.Context, history *[]llm.Message, prompt string) (string, error) {
	*history = append(*history, llm.Message{Role: llm.RoleUser, Content: prompt})
	statement, err := d.client.Complete(ctx, llm.Request{Model: d.model, Messages: *history})
	if err != nil {
		return "", err
	}
	*history = append(*history, llm.Message{Role: llm.RoleAssistant, Content: statement})
	return statement, nil
}
